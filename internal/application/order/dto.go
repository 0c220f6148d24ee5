package order

import (
	"time"

	"github.com/xiebiao/bookclub/internal/domain/order"
)

// OrderResponse 订单响应DTO，金额以两位小数字符串返回
type OrderResponse struct {
	ID         uint                `json:"id"`
	Code       string              `json:"code"`
	UserID     uint                `json:"user_id"`
	Contact    order.Contact       `json:"contact"`
	IsDelivery bool                `json:"is_delivery"`
	Shipping   *order.Shipping     `json:"shipping,omitempty"`
	Items      []OrderItemResponse `json:"items"`
	Total      string              `json:"total"`
	Status     string              `json:"status"`
	Date       string              `json:"date"`
}

type OrderItemResponse struct {
	BookID     uint   `json:"book_id"`
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	BookPrice  string `json:"book_price"`
	BookCover  string `json:"book_cover"`
	Quantity   int    `json:"quantity"`
	ItemTotal  string `json:"item_total"`
}

// NewOrderResponse 实体转响应DTO
func NewOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			BookID:     item.BookID,
			BookTitle:  item.BookTitle,
			BookAuthor: item.BookAuthor,
			BookPrice:  item.BookPrice.StringFixed(2),
			BookCover:  item.BookCover,
			Quantity:   item.Quantity,
			ItemTotal:  item.ItemTotal.StringFixed(2),
		}
	}
	return &OrderResponse{
		ID:         o.ID,
		Code:       o.Code,
		UserID:     o.UserID,
		Contact:    o.Contact,
		IsDelivery: o.IsDelivery,
		Shipping:   o.Shipping,
		Items:      items,
		Total:      o.Total.StringFixed(2),
		Status:     string(o.Status),
		Date:       o.CreatedAt.Format(time.RFC3339),
	}
}
