package cart

import (
	"time"
)

// MaxItemQuantity 单个购物车条目的数量上限
// 加购合并、修改数量都以此为准
const MaxItemQuantity = 10

// CartItem 购物车条目
// 同一用户同一本书只有一条记录，重复加购时合并数量
type CartItem struct {
	ID        uint
	UserID    uint
	BookID    uint
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCartItem 创建购物车条目
func NewCartItem(userID, bookID uint, quantity int) (*CartItem, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	now := time.Now()
	return &CartItem{
		UserID:    userID,
		BookID:    bookID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Merge 合并加购数量，合并后超过上限时不修改并返回错误
func (i *CartItem) Merge(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	merged := i.Quantity + quantity
	if merged > MaxItemQuantity {
		return ErrQuantityExceeded.WithDetails(map[string]any{
			"book_id":   i.BookID,
			"in_cart":   i.Quantity,
			"requested": quantity,
			"max":       MaxItemQuantity,
		})
	}
	i.Quantity = merged
	i.UpdatedAt = time.Now()
	return nil
}

// SetQuantity 修改数量（1..MaxItemQuantity）
func (i *CartItem) SetQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// IsOwnedBy 是否属于指定用户
func (i *CartItem) IsOwnedBy(userID uint) bool {
	return i.UserID == userID
}

// ValidateQuantity 数量必须在[1, MaxItemQuantity]
func ValidateQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

// IDs 提取条目ID
func IDs(items []*CartItem) []uint {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
