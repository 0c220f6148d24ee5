package order

import (
	"context"

	"github.com/xiebiao/bookclub/internal/domain/order"
)

// Cache 订单详情缓存，Get未命中时返回(nil, nil)
type Cache interface {
	Get(ctx context.Context, id uint) (*order.Order, error)

	// Set 按UpdatedAt判断新旧，缓存中已有更新的版本时不覆盖
	Set(ctx context.Context, o *order.Order) error

	Invalidate(ctx context.Context, id uint) error
}

// NopCache 未启用Redis时使用
type NopCache struct{}

func (NopCache) Get(context.Context, uint) (*order.Order, error) { return nil, nil }
func (NopCache) Set(context.Context, *order.Order) error         { return nil }
func (NopCache) Invalidate(context.Context, uint) error          { return nil }
