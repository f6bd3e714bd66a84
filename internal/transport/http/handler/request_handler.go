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

// TODO: 接受/拒绝请求的接口，以及"我发出的请求"列表
type RequestHandler struct {
	svc *service.RequestService
	log *zap.Logger
}

func NewRequestHandler(svc *service.RequestService, log *zap.Logger) *RequestHandler {
	return &RequestHandler{svc: svc, log: log}
}

type requestIn struct {
	BookID string `json:"bookId"`
}

func (h *RequestHandler) Create(c *gin.Context) {
	var in requestIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	requesterID := c.GetString(mdw.KeyUserID)

	r, err := h.svc.Create(c.Request.Context(), requesterID, in.BookID)
	switch {
	case errors.Is(err, domain.ErrSelfRequest):
		resp.Error(c, http.StatusBadRequest, "you cannot request your own book")
	case err != nil:
		// 书不存在也走 500，对外不区分（接口契约里这里没有 404）
		h.log.Error("create request failed", zap.String("bookId", in.BookID), zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "failed to create request")
	default:
		c.JSON(http.StatusCreated, r)
	}
}

type requestOut struct {
	ID          string    `json:"id"`
	BookID      string    `json:"bookId"`
	RequesterID string    `json:"requesterId"`
	CreatedAt   time.Time `json:"createdAt"`
	Requester   struct {
		Name string `json:"name"`
	} `json:"requester"`
	Book struct {
		Title string `json:"title"`
	} `json:"book"`
}

// Incoming 自己名下图书收到的请求，标注请求人姓名和书名
func (h *RequestHandler) Incoming(c *gin.Context) {
	ownerID := c.GetString(mdw.KeyUserID)

	reqs, err := h.svc.Incoming(c.Request.Context(), ownerID)
	if err != nil {
		h.log.Error("list incoming requests failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "failed to fetch incoming requests")
		return
	}
	out := make([]requestOut, 0, len(reqs))
	for _, r := range reqs {
		row := requestOut{
			ID:          r.ID,
			BookID:      r.BookID,
			RequesterID: r.RequesterID,
			CreatedAt:   r.CreatedAt,
		}
		if r.Requester != nil {
			row.Requester.Name = r.Requester.Name
		}
		if r.Book != nil {
			row.Book.Title = r.Book.Title
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, out)
}
