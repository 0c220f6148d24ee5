package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository 资金账户与流水仓储
type Repository interface {
	// LockAccount 锁定账户行并返回当前余额，必须在事务中调用
	// 账户不存在或不是管理员时返回ErrAccountNotFound
	LockAccount(ctx context.Context, accountID uint) (decimal.Decimal, error)

	// AdjustBalance 原子调整余额，结果为负时返回ErrInsufficientCapital
	AdjustBalance(ctx context.Context, accountID uint, delta decimal.Decimal) error

	// AppendEntry 追加流水
	AppendEntry(ctx context.Context, entry *Entry) error

	// Balance 当前余额（不加锁）
	Balance(ctx context.Context, accountID uint) (decimal.Decimal, error)

	// ListEntries 流水分页，按时间倒序
	ListEntries(ctx context.Context, accountID uint, page, pageSize int) ([]*Entry, int64, error)
}
