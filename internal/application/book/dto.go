package book

import (
	"time"

	"github.com/xiebiao/bookclub/internal/domain/book"
)

// Settings 图书采购相关配置
type Settings struct {
	TreasuryID uint // 采购成本从该账户扣除
}

// BookResponse 图书响应DTO
type BookResponse struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	Cover         string `json:"cover"`
	Stock         int    `json:"stock"`
	PurchasePrice string `json:"purchase_price"`
	SalePrice     string `json:"sale_price"`
	Genre         string `json:"genre"`
	Language      string `json:"language"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
}

// BookListItem 列表项DTO（不含description与进价）
type BookListItem struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Cover     string `json:"cover"`
	Stock     int    `json:"stock"`
	SalePrice string `json:"sale_price"`
	Genre     string `json:"genre"`
	Language  string `json:"language"`
}

func NewBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Cover:         b.Cover,
		Stock:         b.Stock,
		PurchasePrice: b.PurchasePrice.StringFixed(2),
		SalePrice:     b.SalePrice.StringFixed(2),
		Genre:         string(b.Genre),
		Language:      string(b.Language),
		IsActive:      b.IsActive,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}
