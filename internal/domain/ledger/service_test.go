package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/memory"
)

func newLedger(t *testing.T, capital string) (ledger.Service, *memory.Store, uint) {
	t.Helper()
	store := memory.NewStore()
	id, err := memory.EnsureTreasury(context.Background(), store, "treasury@bookclub.test", decimal.RequireFromString(capital))
	require.NoError(t, err)
	return ledger.NewService(memory.NewLedgerRepository(store), store), store, id
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestService_CreditAndDebit(t *testing.T) {
	svc, _, id := newLedger(t, "100.00")
	ctx := context.Background()

	credit, err := svc.Credit(ctx, id, dec("49.50"), ledger.ReasonOrderRevenue, "order:1")
	require.NoError(t, err)
	assert.Equal(t, "100.00", credit.BalanceBefore.StringFixed(2))
	assert.Equal(t, "149.50", credit.BalanceAfter.StringFixed(2))

	debit, err := svc.Debit(ctx, id, dec("149.50"), ledger.ReasonInventoryPurchase, "book:1")
	require.NoError(t, err)
	assert.True(t, debit.BalanceAfter.IsZero())

	_, err = svc.Debit(ctx, id, dec("0.01"), ledger.ReasonInventoryPurchase, "book:1")
	require.ErrorIs(t, err, ledger.ErrInsufficientCapital)

	entries, total, err := svc.Entries(ctx, id, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, entries, 2)
	assert.Equal(t, debit.ID, entries[0].ID, "流水按时间倒序")
}

func TestService_RejectsNegativeAmountAndUnknownAccount(t *testing.T) {
	svc, _, id := newLedger(t, "10.00")
	ctx := context.Background()

	_, err := svc.Credit(ctx, id, dec("-1"), ledger.ReasonOrderRevenue, "")
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = svc.Credit(ctx, id+100, dec("1"), ledger.ReasonOrderRevenue, "")
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestService_JoinsOuterTransaction(t *testing.T) {
	svc, store, id := newLedger(t, "10.00")
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := store.Transaction(ctx, func(ctx context.Context) error {
		if _, err := svc.Credit(ctx, id, dec("5"), ledger.ReasonOrderRevenue, "order:1"); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	bal, err := svc.Balance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "10.00", bal.StringFixed(2))
	_, total, err := svc.Entries(ctx, id, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestService_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	svc, _, id := newLedger(t, "10.00")
	ctx := context.Background()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Debit(ctx, id, dec("1.00"), ledger.ReasonInventoryPurchase, ""); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	bal, err := svc.Balance(ctx, id)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}
