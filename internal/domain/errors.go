package domain

import "errors"

// 业务哨兵错误：repo/service 返回，handler 统一映射为 HTTP 状态码
var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotOwner           = errors.New("not the owner")
	ErrSelfRequest        = errors.New("cannot request own book")
)
