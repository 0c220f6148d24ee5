package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/user"
)

// ledgerRepository 资金账户即管理员用户的Capital字段
type ledgerRepository struct {
	store *Store
}

// NewLedgerRepository 创建资金账本仓储
func NewLedgerRepository(store *Store) ledger.Repository {
	return &ledgerRepository{store: store}
}

func adminAccount(st *state, accountID uint) (*user.AdminAccount, error) {
	u, ok := st.users[accountID]
	if !ok || !u.IsAdmin() {
		return nil, ledger.ErrAccountNotFound
	}
	return u.Admin, nil
}

func (r *ledgerRepository) LockAccount(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	return r.Balance(ctx, accountID)
}

func (r *ledgerRepository) AdjustBalance(ctx context.Context, accountID uint, delta decimal.Decimal) error {
	return r.store.write(ctx, func(st *state) error {
		acct, err := adminAccount(st, accountID)
		if err != nil {
			return err
		}
		next := acct.Capital.Add(delta)
		if next.IsNegative() {
			return ledger.ErrInsufficientCapital
		}
		acct.Capital = next
		return nil
	})
}

func (r *ledgerRepository) AppendEntry(ctx context.Context, entry *ledger.Entry) error {
	return r.store.write(ctx, func(st *state) error {
		st.entries = append(st.entries, copyEntry(entry))
		return nil
	})
}

func (r *ledgerRepository) Balance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.store.read(ctx, func(st *state) error {
		acct, err := adminAccount(st, accountID)
		if err != nil {
			return err
		}
		balance = acct.Capital
		return nil
	})
	return balance, err
}

func (r *ledgerRepository) ListEntries(ctx context.Context, accountID uint, page, pageSize int) ([]*ledger.Entry, int64, error) {
	var (
		out   []*ledger.Entry
		total int64
	)
	err := r.store.read(ctx, func(st *state) error {
		var matched []*ledger.Entry
		for i := len(st.entries) - 1; i >= 0; i-- {
			if e := st.entries[i]; e.AccountID == accountID {
				matched = append(matched, e)
			}
		}
		total = int64(len(matched))
		start, end := paginate(len(matched), page, pageSize)
		for _, e := range matched[start:end] {
			out = append(out, copyEntry(e))
		}
		return nil
	})
	return out, total, err
}
