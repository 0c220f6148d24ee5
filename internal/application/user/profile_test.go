package user

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/user"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/memory"
)

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	treasuryID, err := memory.EnsureTreasury(ctx, store, "treasury@bookclub.test", decimal.RequireFromString("120.5"))
	require.NoError(t, err)

	reader := user.NewClient(user.Profile{Email: "ann@example.com", FullName: "Ann Reader", Phone: "555-0100"}, "premium")
	require.NoError(t, users.Create(ctx, reader))

	uc := NewGetProfileUseCase(users, ledger.NewService(memory.NewLedgerRepository(store), store))

	t.Run("client", func(t *testing.T) {
		resp, err := uc.Execute(ctx, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", resp.Email)
		assert.Equal(t, "client", resp.Role)
		assert.Equal(t, "premium", resp.Subscription)
		assert.Empty(t, resp.Capital)
	})

	t.Run("admin shows ledger balance", func(t *testing.T) {
		resp, err := uc.Execute(ctx, treasuryID)
		require.NoError(t, err)
		assert.Equal(t, "admin", resp.Role)
		assert.Equal(t, "120.50", resp.Capital)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := uc.Execute(ctx, 999)
		require.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
