package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookswap/internal/core/auth"
	resp "bookswap/internal/transport/http/response"
)

// gin context 里的身份信息 key
const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyEmail  = "email"
)

// AuthJWT 没带 token 401，带了但解析不过（含过期）403
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.AbortError(c, http.StatusUnauthorized, "no token provided")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortError(c, http.StatusForbidden, "invalid token")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyEmail, claims.Email)
		c.Next()
	}
}
