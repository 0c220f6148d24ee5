package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookclub/internal/domain/user"
	"github.com/xiebiao/bookclub/internal/infrastructure/config"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookclub/pkg/logger"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Driver: "memory"},
		Commerce: config.CommerceConfig{
			TreasuryAccountID:      1,
			TreasuryEmail:          "treasury@bookclub.test",
			TreasuryOpeningCapital: "250.00",
		},
	}
}

func TestNew_MemoryDriverSeedsTreasury(t *testing.T) {
	repos, cleanup, err := New(context.Background(), memoryConfig(), logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	require.NotZero(t, repos.TreasuryID)
	balance, err := repos.Ledger.Balance(context.Background(), repos.TreasuryID)
	require.NoError(t, err)
	assert.Equal(t, "250.00", balance.StringFixed(2))
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Database.Driver = "sqlite"
	_, _, err := New(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
}

func TestNew_RejectsBadOpeningCapital(t *testing.T) {
	cfg := memoryConfig()
	cfg.Commerce.TreasuryOpeningCapital = "lots"
	_, _, err := New(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
}

func TestResolveTreasury(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := NewMemory(store)
	existing, err := memory.EnsureTreasury(ctx, store, "admin@bookclub.test", decimal.NewFromInt(5))
	require.NoError(t, err)

	seeded := 0
	seed := func(ctx context.Context) (uint, error) {
		seeded++
		return memory.EnsureTreasury(ctx, store, "fallback@bookclub.test", decimal.Zero)
	}

	t.Run("configured admin is used", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Commerce.TreasuryAccountID = existing
		id, err := resolveTreasury(ctx, cfg, repos.Ledger, seed)
		require.NoError(t, err)
		assert.Equal(t, existing, id)
		assert.Zero(t, seeded)
	})

	t.Run("missing account falls back to seeding", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Commerce.TreasuryAccountID = existing + 10
		id, err := resolveTreasury(ctx, cfg, repos.Ledger, seed)
		require.NoError(t, err)
		assert.NotEqual(t, existing, id)
		assert.Equal(t, 1, seeded)
	})
}

func TestOpenMemory_UsesConfiguredTreasury(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	existing, err := memory.EnsureTreasury(ctx, store, "admin@bookclub.test", decimal.NewFromInt(42))
	require.NoError(t, err)

	cfg := memoryConfig()
	cfg.Commerce.TreasuryAccountID = existing
	repos, err := openMemory(ctx, cfg, store, decimal.NewFromInt(250))
	require.NoError(t, err)
	assert.Equal(t, existing, repos.TreasuryID)

	_, err = repos.Users.FindByID(ctx, existing+1)
	assert.ErrorIs(t, err, user.ErrUserNotFound, "配置的账户存在时不应按邮箱再创建")

	balance, err := repos.Ledger.Balance(ctx, repos.TreasuryID)
	require.NoError(t, err)
	assert.Equal(t, "42.00", balance.StringFixed(2))
}
