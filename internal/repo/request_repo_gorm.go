package repo

import (
	"context"

	"gorm.io/gorm"

	"bookswap/internal/domain"
)

type SwapRequestRepo struct{ db *gorm.DB }

func NewSwapRequestRepo(db *gorm.DB) *SwapRequestRepo { return &SwapRequestRepo{db: db} }

func (r *SwapRequestRepo) Create(ctx context.Context, req *domain.SwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// ListIncoming owner 视角：自己名下图书收到的请求，带 requester 和 book
func (r *SwapRequestRepo) ListIncoming(ctx context.Context, ownerID string) ([]domain.SwapRequest, error) {
	var reqs []domain.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Book").
		Select("swap_requests.*").
		Joins("JOIN books ON books.id = swap_requests.book_id").
		Where("books.owner_id = ?", ownerID).
		Order("swap_requests.created_at desc").
		Find(&reqs).Error
	return reqs, err
}
