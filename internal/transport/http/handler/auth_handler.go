package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookswap/internal/domain"
	"bookswap/internal/service"
	mdw "bookswap/internal/transport/http/middleware"
	resp "bookswap/internal/transport/http/response"
)

type AuthHandler struct {
	svc *service.AuthService
	log *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

func (h *AuthHandler) Hello(c *gin.Context) {
	resp.Message(c, http.StatusOK, "hello from the bookswap backend")
}

type registerIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, "email and password are required")
		return
	}
	if in.Email == "" || in.Password == "" {
		resp.Error(c, http.StatusBadRequest, "email and password are required")
		return
	}

	userID, err := h.svc.Register(c.Request.Context(), in.Email, in.Password, in.Name)
	if errors.Is(err, domain.ErrEmailTaken) {
		resp.Error(c, http.StatusConflict, "email already exists")
		return
	}
	if err != nil {
		h.log.Error("register failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "an error occurred during registration")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user created successfully", "userId": userID})
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		// 邮箱不存在和密码错误响应完全一致
		resp.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.log.Error("login failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "an error occurred during login")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": token})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	uid := c.GetString(mdw.KeyUserID)
	u, err := h.svc.Profile(c.Request.Context(), uid)
	if err != nil {
		h.log.Error("profile fetch failed", zap.String("userId", uid), zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	// 显式挑字段，密码 hash 永不出门
	c.JSON(http.StatusOK, gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"name":      u.Name,
		"createdAt": u.CreatedAt,
	})
}
