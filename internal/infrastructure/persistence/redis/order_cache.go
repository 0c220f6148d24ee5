package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookclub/internal/domain/order"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// OrderCache 订单详情缓存
//
// 订单明细创建后不变，只有状态会改变。缓存以hash保存订单JSON及其版本（UpdatedAt微秒），
// 写入时版本比缓存中旧则放弃，避免查询回填的旧状态覆盖状态更新写入的新状态。
type OrderCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewOrderCache 创建订单缓存
func NewOrderCache(client redis.Cmdable, ttl time.Duration) *OrderCache {
	return &OrderCache{client: client, ttl: ttl}
}

func orderKey(id uint) string {
	return fmt.Sprintf("bookclub:order:%d", id)
}

// setIfNotOlder KEYS[1]=订单key ARGV[1]=版本 ARGV[2]=订单JSON ARGV[3]=过期毫秒
var setIfNotOlder = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'version')
if current and tonumber(current) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// Get 未命中时返回(nil, nil)
func (c *OrderCache) Get(ctx context.Context, id uint) (*order.Order, error) {
	data, err := c.client.HGet(ctx, orderKey(id), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrRedisError.WithErr(err)
	}

	var o order.Order
	if err := json.Unmarshal(data, &o); err != nil {
		// 格式不兼容的旧数据当作未命中
		_ = c.client.Del(ctx, orderKey(id)).Err()
		return nil, nil
	}
	return &o, nil
}

// Set 写入订单，缓存中已有更新的版本时不覆盖
func (c *OrderCache) Set(ctx context.Context, o *order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return apperrors.Wrap(err, "序列化订单失败")
	}
	err = setIfNotOlder.Run(ctx, c.client, []string{orderKey(o.ID)},
		o.UpdatedAt.UnixMicro(), data, c.ttl.Milliseconds()).Err()
	if err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

func (c *OrderCache) Invalidate(ctx context.Context, id uint) error {
	if err := c.client.Del(ctx, orderKey(id)).Err(); err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}
