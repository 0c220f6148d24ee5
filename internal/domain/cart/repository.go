package cart

import (
	"context"
)

// Repository 购物车仓储接口
type Repository interface {
	Create(ctx context.Context, item *CartItem) error

	// FindByID 不存在时返回ErrCartItemNotFound
	FindByID(ctx context.Context, id uint) (*CartItem, error)

	// FindByUserAndBook 不存在时返回ErrCartItemNotFound
	FindByUserAndBook(ctx context.Context, userID, bookID uint) (*CartItem, error)

	// LockByUserAndBook 同FindByUserAndBook，但加行锁（必须在事务中）
	LockByUserAndBook(ctx context.Context, userID, bookID uint) (*CartItem, error)

	// UpdateQuantity 更新数量
	UpdateQuantity(ctx context.Context, id uint, quantity int) error

	Delete(ctx context.Context, id uint) error

	// ListByUser 按加入顺序（ID升序）返回用户的全部条目
	ListByUser(ctx context.Context, userID uint) ([]*CartItem, error)

	// LockByUser 同ListByUser，但加行锁（下单时使用，必须在事务中）
	LockByUser(ctx context.Context, userID uint) ([]*CartItem, error)

	// DeleteByIDs 批量删除
	DeleteByIDs(ctx context.Context, ids []uint) error
}
