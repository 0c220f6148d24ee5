package order

import (
	"context"
)

// Repository 订单仓储接口
// 订单与明细在同一事务中写入
type Repository interface {
	// Create 创建订单（含明细），回填ID；订单号冲突返回ErrDuplicateCode
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单（含明细）
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByCode 根据订单号查找
	FindByCode(ctx context.Context, code string) (*Order, error)

	// ExistsByCode 订单号是否已被使用
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// UpdateStatus 覆盖订单状态
	UpdateStatus(ctx context.Context, id uint, status Status) error

	// ListByUserID 用户订单，按下单时间倒序
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)
}
