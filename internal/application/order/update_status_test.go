package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/pkg/logger"
)

// mapCache 记录缓存读写的内存实现，与Redis实现一样不让旧版本覆盖新版本
type mapCache struct {
	items       map[uint]*order.Order
	invalidated []uint
	setErr      error
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[uint]*order.Order)}
}

func (c *mapCache) Get(_ context.Context, id uint) (*order.Order, error) {
	return c.items[id], nil
}

func (c *mapCache) Set(_ context.Context, o *order.Order) error {
	if c.setErr != nil {
		return c.setErr
	}
	if cur, ok := c.items[o.ID]; ok && cur.UpdatedAt.After(o.UpdatedAt) {
		return nil
	}
	c.items[o.ID] = o
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, id uint) error {
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func placeOrder(t *testing.T, f *fixture) *OrderResponse {
	t.Helper()
	u := f.client(t, "ann@example.com")
	b1 := f.seedBook(t, "Dune", 5)
	f.addToCart(t, u.ID, b1.ID, 2)
	resp, err := f.create.Execute(context.Background(), pickup(u.ID))
	require.NoError(t, err)
	return resp
}

func TestUpdateStatus_AnyStateToAnyState(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f)

	for _, status := range []order.Status{order.StatusDelivered, order.StatusPending, order.StatusInProgress, order.StatusInProgress} {
		resp, err := f.update.Execute(context.Background(), UpdateStatusRequest{OrderID: placed.ID, Status: string(status)})
		require.NoError(t, err)
		assert.Equal(t, string(status), resp.Status)

		stored, err := f.orders.FindByID(context.Background(), placed.ID)
		require.NoError(t, err)
		assert.Equal(t, status, stored.Status)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f)

	_, err := f.update.Execute(context.Background(), UpdateStatusRequest{OrderID: placed.ID, Status: "shipped"})
	require.ErrorIs(t, err, order.ErrInvalidStatus)

	stored, err := f.orders.FindByID(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, stored.Status)
}

func TestUpdateStatus_MissingOrderIsReportedFirst(t *testing.T) {
	f := newFixture(t)

	_, err := f.update.Execute(context.Background(), UpdateStatusRequest{OrderID: 42, Status: "shipped"})
	require.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestUpdateStatus_WritesThroughCache(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f)
	ctx := context.Background()

	// 一个慢查询在状态更新前读到了旧订单
	stale, err := f.orders.FindByID(ctx, placed.ID)
	require.NoError(t, err)

	cache := newMapCache()
	uc := NewUpdateStatusUseCase(f.orders, cache, logger.Nop())
	_, err = uc.Execute(ctx, UpdateStatusRequest{OrderID: placed.ID, Status: string(order.StatusDelivered)})
	require.NoError(t, err)
	require.Contains(t, cache.items, placed.ID)
	assert.Equal(t, order.StatusDelivered, cache.items[placed.ID].Status)
	assert.Empty(t, cache.invalidated)

	// 旧订单回填缓存不覆盖新状态
	require.NoError(t, cache.Set(ctx, stale))
	resp, err := NewGetOrderUseCase(f.orders, cache, logger.Nop()).
		Execute(ctx, GetOrderRequest{OrderID: placed.ID, UserID: placed.UserID})
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusDelivered), resp.Status)
}

func TestUpdateStatus_InvalidatesCacheWhenWriteFails(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f)

	cache := newMapCache()
	cache.setErr = errors.New("redis down")
	uc := NewUpdateStatusUseCase(f.orders, cache, logger.Nop())
	_, err := uc.Execute(context.Background(), UpdateStatusRequest{OrderID: placed.ID, Status: string(order.StatusDelivered)})
	require.NoError(t, err)
	assert.Equal(t, []uint{placed.ID}, cache.invalidated)
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f)
	stranger := f.client(t, "eve@example.com")

	cache := newMapCache()
	uc := NewGetOrderUseCase(f.orders, cache, logger.Nop())

	t.Run("owner reads and fills the cache", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), GetOrderRequest{OrderID: placed.ID, UserID: placed.UserID})
		require.NoError(t, err)
		assert.Equal(t, placed.Code, resp.Code)
		assert.Contains(t, cache.items, placed.ID)
	})

	t.Run("another client sees not found", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), GetOrderRequest{OrderID: placed.ID, UserID: stranger.ID})
		require.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("admin reads any order", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), GetOrderRequest{OrderID: placed.ID, UserID: f.treasuryID, IsAdmin: true})
		require.NoError(t, err)
		assert.Equal(t, placed.Total, resp.Total)
	})
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	placed := placeOrder(t, f)

	resp, err := NewListOrdersUseCase(f.orders).Execute(context.Background(), ListOrdersRequest{UserID: placed.UserID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Total)
	assert.Equal(t, 20, resp.PageSize)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, placed.Code, resp.Orders[0].Code)
}
