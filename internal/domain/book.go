package domain

import (
	"context"
	"time"
)

// 图书状态（目前没有任何接口会把 AVAILABLE 翻成 UNAVAILABLE，列表按此过滤）
const (
	BookStatusAvailable   = "AVAILABLE"
	BookStatusUnavailable = "UNAVAILABLE"
)

type Book struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:191" json:"title"`
	Author      string    `gorm:"size:191" json:"author"`
	Description string    `gorm:"type:text" json:"description"`
	Condition   string    `gorm:"size:64" json:"condition"`
	Status      string    `gorm:"size:16;not null;default:AVAILABLE" json:"status"`
	OwnerID     string    `gorm:"size:36;index;not null" json:"ownerId"`
	Owner       *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Book) TableName() string { return "books" }

// BookUpdate 只允许改这三个字段，ownerId/status 不从请求体进来
type BookUpdate struct {
	Title     string
	Author    string
	Condition string
}

type BookRepository interface {
	Create(ctx context.Context, b *Book) error
	FindByID(ctx context.Context, id string) (*Book, error)
	ListAvailable(ctx context.Context) ([]Book, error)
	ListAll(ctx context.Context, offset, limit int) ([]Book, int64, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
}
