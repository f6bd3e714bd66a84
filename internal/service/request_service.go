package service

import (
	"context"

	"bookswap/internal/domain"
	"bookswap/pkg/utils"
)

type RequestService struct {
	requests domain.SwapRequestRepository
	books    domain.BookRepository
}

func NewRequestService(requests domain.SwapRequestRepository, books domain.BookRepository) *RequestService {
	return &RequestService{requests: requests, books: books}
}

// Create 自己的书不能请求（domain.ErrSelfRequest）
func (s *RequestService) Create(ctx context.Context, requesterID, bookID string) (*domain.SwapRequest, error) {
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID == requesterID {
		return nil, domain.ErrSelfRequest
	}
	r := &domain.SwapRequest{
		ID:          utils.NewID(),
		BookID:      bookID,
		RequesterID: requesterID,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RequestService) Incoming(ctx context.Context, ownerID string) ([]domain.SwapRequest, error) {
	return s.requests.ListIncoming(ctx, ownerID)
}
