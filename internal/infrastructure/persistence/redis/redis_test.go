package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookclub/internal/domain/order"
)

// newTestClient 连接本地Redis的15号库，不可用时跳过
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("BOOKCLUB_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis不可用: %v", err)
	}
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTokenBlacklist(t *testing.T) {
	client := newTestClient(t)
	bl := NewTokenBlacklist(client)
	ctx := context.Background()

	revoked, err := bl.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "token-a", time.Minute))
	revoked, err = bl.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "token-b", 0))
	revoked, err = bl.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked, "已过期的Token不需要写入")
}

func TestOrderCache(t *testing.T) {
	client := newTestClient(t)
	cache := NewOrderCache(client, time.Minute)
	ctx := context.Background()

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)

	item, err := order.NewItem(3, "Dune", "Herbert", "", decimal.RequireFromString("19.80"), 2)
	require.NoError(t, err)
	o, err := order.NewOrder("AB12CD", 1, order.Contact{Email: "a@b.c", FullName: "Ann", RecipientName: "Ann"},
		true, &order.Shipping{Address: "Main 1", City: "Lima", District: "Miraflores"}, []order.Item{item}, "")
	require.NoError(t, err)
	o.ID = 7

	require.NoError(t, cache.Set(ctx, o))
	got, err = cache.Get(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "AB12CD", got.Code)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("39.60")))
	require.NotNil(t, got.Shipping)
	assert.Equal(t, "Lima", got.Shipping.City)

	require.NoError(t, cache.Invalidate(ctx, 7))
	got, err = cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderCache_OlderVersionDoesNotOverwrite(t *testing.T) {
	client := newTestClient(t)
	cache := NewOrderCache(client, time.Minute)
	ctx := context.Background()

	item, err := order.NewItem(3, "Dune", "Herbert", "", decimal.RequireFromString("19.80"), 1)
	require.NoError(t, err)
	stale, err := order.NewOrder("AB12CD", 1, order.Contact{Email: "a@b.c", FullName: "Ann"}, false, nil, []order.Item{item}, "")
	require.NoError(t, err)
	stale.ID = 9

	fresh := *stale
	require.NoError(t, fresh.ChangeStatus(order.StatusDelivered))
	fresh.UpdatedAt = stale.UpdatedAt.Add(time.Second)

	// 状态更新先写入新版本，查询回填的旧数据随后到达
	require.NoError(t, cache.Set(ctx, &fresh))
	require.NoError(t, cache.Set(ctx, stale))

	got, err := cache.Get(ctx, 9)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.StatusDelivered, got.Status)

	ttl, err := client.TTL(ctx, orderKey(9)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestInbox_KeepsLatest(t *testing.T) {
	client := newTestClient(t)
	inbox := NewInbox(client, 2)
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, inbox.Push(ctx, 5, []byte(msg)))
	}

	items, err := inbox.Latest(ctx, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two"}, items)
}
