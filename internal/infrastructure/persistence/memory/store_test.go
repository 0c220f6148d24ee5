package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/user"
)

func seedBook(t *testing.T, repo book.Repository, title string, stock int) *book.Book {
	t.Helper()
	b, err := book.NewBook(title, "Author", "", "", stock, book.GenrePoetry, book.LanguageEnglish, decimal.NewFromInt(12))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestStore_TransactionRollsBackOnError(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, books, "Dune", 5)

	errBoom := errors.New("boom")
	err := store.Transaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, books.UpdateStock(ctx, b.ID, -3))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	got, err := books.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestStore_TransactionRollsBackOnCancel(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, books, "Dune", 5)

	ctx, cancel := context.WithCancel(context.Background())
	err := store.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, books.UpdateStock(ctx, b.ID, -3))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := books.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestStore_TransactionRollsBackOnPanic(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, books, "Dune", 5)

	assert.Panics(t, func() {
		_ = store.Transaction(context.Background(), func(ctx context.Context) error {
			_ = books.UpdateStock(ctx, b.ID, -5)
			panic("unexpected")
		})
	})

	got, err := books.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestStore_NestedTransactionJoinsOuter(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, books, "Dune", 5)

	err := store.Transaction(context.Background(), func(ctx context.Context) error {
		inner := store.Transaction(ctx, func(ctx context.Context) error {
			return books.UpdateStock(ctx, b.ID, -1)
		})
		require.NoError(t, inner)
		return errors.New("outer fails")
	})
	require.Error(t, err)

	got, _ := books.FindByID(context.Background(), b.ID)
	assert.Equal(t, 5, got.Stock, "外层回滚时内层修改也应回滚")
}

func TestBookRepository_ReturnsCopies(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, books, "Dune", 5)

	got, err := books.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	got.Stock = 999
	got.Title = "changed"

	again, _ := books.FindByID(context.Background(), b.ID)
	assert.Equal(t, 5, again.Stock)
	assert.Equal(t, "Dune", again.Title)
}

func TestBookRepository_UpdateStockGuard(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, books, "Dune", 2)

	err := books.UpdateStock(context.Background(), b.ID, -3)
	assert.ErrorIs(t, err, book.ErrInsufficientStock)

	err = books.UpdateStock(context.Background(), 404, 1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookRepository_FindActiveByTitleAuthor(t *testing.T) {
	store := NewStore()
	books := NewBookRepository(store)
	b := seedBook(t, books, "Dune", 1)

	found, err := books.FindActiveByTitleAuthor(context.Background(), "  DUNE ", "author")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	b.IsActive = false
	require.NoError(t, books.Update(context.Background(), b))

	_, err = books.FindActiveByTitleAuthor(context.Background(), "Dune", "Author")
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestLedgerRepository_AdminOnly(t *testing.T) {
	store := NewStore()
	users := NewUserRepository(store)
	accounts := NewLedgerRepository(store)
	ctx := context.Background()

	admin, err := user.NewAdmin(user.Profile{Email: "admin@example.com", FullName: "Admin"}, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, admin))

	client := user.NewClient(user.Profile{Email: "reader@example.com", FullName: "Reader"}, "free")
	require.NoError(t, users.Create(ctx, client))

	_, err = accounts.Balance(ctx, client.ID)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

	require.NoError(t, accounts.AdjustBalance(ctx, admin.ID, decimal.NewFromInt(-40)))
	assert.ErrorIs(t, accounts.AdjustBalance(ctx, admin.ID, decimal.NewFromInt(-61)), ledger.ErrInsufficientCapital)

	balance, err := accounts.Balance(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(60)))
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	store := NewStore()
	users := NewUserRepository(store)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, user.NewClient(user.Profile{Email: "a@example.com"}, "free")))
	err := users.Create(ctx, user.NewClient(user.Profile{Email: "A@example.com"}, "free"))
	assert.ErrorIs(t, err, user.ErrEmailDuplicate)
}
