package domain

import (
	"context"
	"time"
)

// SwapRequest 换书请求：requester 对 owner 的某本书表达兴趣。
// 目前只有创建和 owner 侧列表，没有接受/拒绝（见 handler 里的 TODO）。
type SwapRequest struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	BookID      string    `gorm:"size:36;index;not null" json:"bookId"`
	Book        *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
	RequesterID string    `gorm:"size:36;index;not null" json:"requesterId"`
	Requester   *User     `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (SwapRequest) TableName() string { return "swap_requests" }

type SwapRequestRepository interface {
	Create(ctx context.Context, r *SwapRequest) error
	// ListIncoming 返回指定 owner 名下图书收到的全部请求（带 requester 和 book）
	ListIncoming(ctx context.Context, ownerID string) ([]SwapRequest, error)
}
