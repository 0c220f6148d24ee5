package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookclub/internal/domain/uow"
)

// Service 平台资金账本
// 每次变动：锁账户 → 校验余额 → 调整余额 → 追加流水，在同一事务内完成。
// 在外层事务中调用时加入外层事务，外层回滚时一并回滚。
type Service interface {
	// Credit 入账，amount>=0
	Credit(ctx context.Context, accountID uint, amount decimal.Decimal, reason Reason, refID string) (*Entry, error)

	// Debit 出账，amount>=0，余额不足返回ErrInsufficientCapital
	Debit(ctx context.Context, accountID uint, amount decimal.Decimal, reason Reason, refID string) (*Entry, error)

	// Balance 当前余额
	Balance(ctx context.Context, accountID uint) (decimal.Decimal, error)

	// Entries 流水分页
	Entries(ctx context.Context, accountID uint, page, pageSize int) ([]*Entry, int64, error)
}

type service struct {
	repo Repository
	tx   uow.TxManager
}

// NewService 创建资金账本服务
func NewService(repo Repository, tx uow.TxManager) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) Credit(ctx context.Context, accountID uint, amount decimal.Decimal, reason Reason, refID string) (*Entry, error) {
	return s.apply(ctx, accountID, KindCredit, amount, reason, refID)
}

func (s *service) Debit(ctx context.Context, accountID uint, amount decimal.Decimal, reason Reason, refID string) (*Entry, error) {
	return s.apply(ctx, accountID, KindDebit, amount, reason, refID)
}

func (s *service) apply(ctx context.Context, accountID uint, kind Kind, amount decimal.Decimal, reason Reason, refID string) (*Entry, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var entry *Entry
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		before, err := s.repo.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}

		e := NewEntry(accountID, kind, reason, amount, before, refID)
		if e.BalanceAfter.IsNegative() {
			return ErrInsufficientCapital.WithDetails(map[string]any{
				"account_id": accountID,
				"balance":    before.StringFixed(2),
				"amount":     amount.StringFixed(2),
			})
		}

		if err := s.repo.AdjustBalance(ctx, accountID, e.Delta()); err != nil {
			return err
		}
		if err := s.repo.AppendEntry(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) Balance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	return s.repo.Balance(ctx, accountID)
}

func (s *service) Entries(ctx context.Context, accountID uint, page, pageSize int) ([]*Entry, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListEntries(ctx, accountID, page, pageSize)
}
