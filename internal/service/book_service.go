package service

import (
	"context"
	"time"

	"bookswap/internal/core/cache"
	"bookswap/internal/domain"
	"bookswap/pkg/utils"
)

const (
	cacheKeyAvailableBooks = "books:available"
	availableBooksTTL      = 30 * time.Second
)

type BookService struct {
	books domain.BookRepository
	cache *cache.Cache // 可为 nil（未配置 redis 时直连 DB）
}

func NewBookService(books domain.BookRepository, c *cache.Cache) *BookService {
	return &BookService{books: books, cache: c}
}

func (s *BookService) Create(ctx context.Context, ownerID, title, author, description string) (*domain.Book, error) {
	b := &domain.Book{
		ID:          utils.NewID(),
		Title:       title,
		Author:      author,
		Description: description,
		Status:      domain.BookStatusAvailable,
		OwnerID:     ownerID, // 永远来自 token，不信请求体
	}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return b, nil
}

func (s *BookService) ListAvailable(ctx context.Context) ([]domain.Book, error) {
	if s.cache == nil {
		return s.books.ListAvailable(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, cacheKeyAvailableBooks, availableBooksTTL,
		func(ctx context.Context) ([]domain.Book, error) {
			return s.books.ListAvailable(ctx)
		})
}

// Update 先读后比 owner 再写；和原实现一样没有包事务（并发编辑同一本书存在窄窗口）
func (s *BookService) Update(ctx context.Context, callerID, bookID string, upd domain.BookUpdate) (*domain.Book, error) {
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != callerID {
		return nil, domain.ErrNotOwner
	}
	if upd.Title != "" {
		b.Title = upd.Title
	}
	if upd.Author != "" {
		b.Author = upd.Author
	}
	if upd.Condition != "" {
		b.Condition = upd.Condition
	}
	if err := s.books.Update(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return b, nil
}

func (s *BookService) Delete(ctx context.Context, callerID, bookID string) error {
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return err
	}
	if b.OwnerID != callerID {
		return domain.ErrNotOwner
	}
	if err := s.books.Delete(ctx, b.ID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *BookService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cacheKeyAvailableBooks)
	}
}
