package book

import (
	"context"
)

// Repository 图书仓储接口
// 所有方法从ctx中取事务（见uow.TxManager），无事务时直接执行
type Repository interface {
	// Create 创建图书，回填ID
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书（包含已下架）
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindActiveByTitleAuthor 查找同名同作者的上架图书
	// 比较忽略大小写与首尾空格，不存在时返回ErrBookNotFound
	FindActiveByTitleAuthor(ctx context.Context, title, author string) (*Book, error)

	// Update 更新图书信息（不含库存）
	Update(ctx context.Context, book *Book) error

	// List 分页查询上架图书
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询（SELECT ... FOR UPDATE），必须在事务中调用
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 原子更新库存，delta为负表示扣减
	// 扣减后为负时返回ErrInsufficientStock，不修改库存
	UpdateStock(ctx context.Context, id uint, delta int) error

	// SetStock 直接设置库存
	SetStock(ctx context.Context, id uint, stock int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索标题、作者
	Genre    Genre  // 为空表示不限
	SortBy   string // price_asc | price_desc | created_at_desc
}
