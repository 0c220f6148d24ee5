package memory

import (
	"context"
	"time"

	"github.com/xiebiao/bookclub/internal/domain/cart"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

type cartRepository struct {
	store *Store
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(store *Store) cart.Repository {
	return &cartRepository{store: store}
}

func (r *cartRepository) Create(ctx context.Context, item *cart.CartItem) error {
	return r.store.write(ctx, func(st *state) error {
		for _, existing := range st.carts {
			if existing.UserID == item.UserID && existing.BookID == item.BookID {
				return apperrors.ErrDuplicateEntry
			}
		}
		st.nextCartID++
		item.ID = st.nextCartID
		st.carts[item.ID] = copyCartItem(item)
		return nil
	})
}

func (r *cartRepository) FindByID(ctx context.Context, id uint) (*cart.CartItem, error) {
	var found *cart.CartItem
	err := r.store.read(ctx, func(st *state) error {
		item, ok := st.carts[id]
		if !ok {
			return cart.ErrCartItemNotFound
		}
		found = copyCartItem(item)
		return nil
	})
	return found, err
}

func (r *cartRepository) FindByUserAndBook(ctx context.Context, userID, bookID uint) (*cart.CartItem, error) {
	var found *cart.CartItem
	err := r.store.read(ctx, func(st *state) error {
		for _, id := range sortedIDs(st.carts) {
			item := st.carts[id]
			if item.UserID == userID && item.BookID == bookID {
				found = copyCartItem(item)
				return nil
			}
		}
		return cart.ErrCartItemNotFound
	})
	return found, err
}

// LockByUserAndBook 内存存储的写操作本身串行执行
func (r *cartRepository) LockByUserAndBook(ctx context.Context, userID, bookID uint) (*cart.CartItem, error) {
	return r.FindByUserAndBook(ctx, userID, bookID)
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	return r.store.write(ctx, func(st *state) error {
		item, ok := st.carts[id]
		if !ok {
			return cart.ErrCartItemNotFound
		}
		item.Quantity = quantity
		item.UpdatedAt = time.Now()
		return nil
	})
}

func (r *cartRepository) Delete(ctx context.Context, id uint) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.carts[id]; !ok {
			return cart.ErrCartItemNotFound
		}
		delete(st.carts, id)
		return nil
	})
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]*cart.CartItem, error) {
	var items []*cart.CartItem
	err := r.store.read(ctx, func(st *state) error {
		for _, id := range sortedIDs(st.carts) {
			if item := st.carts[id]; item.UserID == userID {
				items = append(items, copyCartItem(item))
			}
		}
		return nil
	})
	return items, err
}

func (r *cartRepository) LockByUser(ctx context.Context, userID uint) ([]*cart.CartItem, error) {
	return r.ListByUser(ctx, userID)
}

func (r *cartRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return r.store.write(ctx, func(st *state) error {
		for _, id := range ids {
			delete(st.carts, id)
		}
		return nil
	})
}
