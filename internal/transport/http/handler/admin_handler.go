package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookswap/internal/domain"
	resp "bookswap/internal/transport/http/response"
)

// AdminHandler 运维侧只读接口，挂在内网 admin 端口上
type AdminHandler struct {
	users domain.UserRepository
	books domain.BookRepository
	log   *zap.Logger
}

func NewAdminHandler(users domain.UserRepository, books domain.BookRepository, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, books: books, log: log}
}

func pageParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	offset, limit := pageParams(c)
	users, total, err := h.users.List(c.Request.Context(), c.Query("q"), offset, limit)
	if err != nil {
		h.log.Error("admin list users failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "failed to list users")
		return
	}

	type row struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		CreatedAt string `json:"createdAt"`
	}
	items := make([]row, 0, len(users))
	for _, u := range users {
		items = append(items, row{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05")})
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "items": items})
}

// ListBooks 含 UNAVAILABLE，和公开列表不同
func (h *AdminHandler) ListBooks(c *gin.Context) {
	offset, limit := pageParams(c)
	books, total, err := h.books.ListAll(c.Request.Context(), offset, limit)
	if err != nil {
		h.log.Error("admin list books failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "failed to list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "items": books})
}
