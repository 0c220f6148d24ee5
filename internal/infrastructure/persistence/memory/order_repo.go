package memory

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/xiebiao/bookclub/internal/domain/order"
)

type orderRepository struct {
	store *Store
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(store *Store) order.Repository {
	return &orderRepository{store: store}
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.store.write(ctx, func(st *state) error {
		for _, existing := range st.orders {
			if existing.Code == o.Code {
				return order.ErrDuplicateCode
			}
		}
		st.nextOrderID++
		o.ID = st.nextOrderID
		st.orders[o.ID] = copyOrder(o)
		return nil
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var found *order.Order
	err := r.store.read(ctx, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return order.ErrOrderNotFound
		}
		found = copyOrder(o)
		return nil
	})
	return found, err
}

func (r *orderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	var found *order.Order
	err := r.store.read(ctx, func(st *state) error {
		for _, o := range st.orders {
			if o.Code == code {
				found = copyOrder(o)
				return nil
			}
		}
		return order.ErrOrderNotFound
	})
	return found, err
}

func (r *orderRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.FindByCode(ctx, code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, order.ErrOrderNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	return r.store.write(ctx, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return order.ErrOrderNotFound
		}
		o.Status = status
		o.UpdatedAt = time.Now()
		return nil
	})
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	var (
		out   []*order.Order
		total int64
	)
	err := r.store.read(ctx, func(st *state) error {
		var matched []*order.Order
		for _, o := range st.orders {
			if o.UserID == userID {
				matched = append(matched, o)
			}
		}
		slices.SortFunc(matched, func(a, b *order.Order) int { return desc(a.ID, b.ID) })

		total = int64(len(matched))
		start, end := paginate(len(matched), page, pageSize)
		for _, o := range matched[start:end] {
			out = append(out, copyOrder(o))
		}
		return nil
	})
	return out, total, err
}
