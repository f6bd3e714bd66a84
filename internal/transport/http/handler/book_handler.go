package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookswap/internal/domain"
	"bookswap/internal/service"
	mdw "bookswap/internal/transport/http/middleware"
	resp "bookswap/internal/transport/http/response"
)

type BookHandler struct {
	svc *service.BookService
	log *zap.Logger
}

func NewBookHandler(svc *service.BookService, log *zap.Logger) *BookHandler {
	return &BookHandler{svc: svc, log: log}
}

type bookIn struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Condition   string `json:"condition"`
}

func (h *BookHandler) Create(c *gin.Context) {
	var in bookIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	ownerID := c.GetString(mdw.KeyUserID)

	b, err := h.svc.Create(c.Request.Context(), ownerID, in.Title, in.Author, in.Description)
	if err != nil {
		h.log.Error("create book failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "failed to create book")
		return
	}
	c.JSON(http.StatusCreated, b)
}

type ownerOut struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type bookOut struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Condition   string    `json:"condition"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	Owner       ownerOut  `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
}

// List 公开接口：只出 AVAILABLE，带 owner 的 {id,name}
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.svc.ListAvailable(c.Request.Context())
	if err != nil {
		h.log.Error("list books failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "failed to fetch books")
		return
	}
	out := make([]bookOut, 0, len(books))
	for _, b := range books {
		row := bookOut{
			ID:          b.ID,
			Title:       b.Title,
			Author:      b.Author,
			Description: b.Description,
			Condition:   b.Condition,
			Status:      b.Status,
			OwnerID:     b.OwnerID,
			CreatedAt:   b.CreatedAt,
		}
		if b.Owner != nil {
			row.Owner = ownerOut{ID: b.Owner.ID, Name: b.Owner.Name}
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookHandler) Update(c *gin.Context) {
	var in bookIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	callerID := c.GetString(mdw.KeyUserID)
	bookID := c.Param("id")

	b, err := h.svc.Update(c.Request.Context(), callerID, bookID, domain.BookUpdate{
		Title:     in.Title,
		Author:    in.Author,
		Condition: in.Condition,
	})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resp.Error(c, http.StatusNotFound, "book not found")
	case errors.Is(err, domain.ErrNotOwner):
		resp.Error(c, http.StatusForbidden, "not authorized to update this book")
	case err != nil:
		h.log.Error("update book failed", zap.String("bookId", bookID), zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "failed to update book")
	default:
		c.JSON(http.StatusOK, b)
	}
}

func (h *BookHandler) Delete(c *gin.Context) {
	callerID := c.GetString(mdw.KeyUserID)
	bookID := c.Param("id")

	err := h.svc.Delete(c.Request.Context(), callerID, bookID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resp.Error(c, http.StatusNotFound, "book not found")
	case errors.Is(err, domain.ErrNotOwner):
		resp.Error(c, http.StatusForbidden, "not authorized to delete this book")
	case err != nil:
		h.log.Error("delete book failed", zap.String("bookId", bookID), zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "failed to delete book")
	default:
		resp.Message(c, http.StatusOK, "book deleted successfully")
	}
}
