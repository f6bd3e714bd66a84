package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt.DefaultCost = 10 轮，够用且不拖慢登录
func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
