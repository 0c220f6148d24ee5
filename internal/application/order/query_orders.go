package order

import (
	"context"

	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/pkg/logger"
)

// GetOrderUseCase 订单详情（cache-aside）
type GetOrderUseCase struct {
	orders order.Repository
	cache  Cache
	log    *logger.Logger
}

func NewGetOrderUseCase(orders order.Repository, cache Cache, log *logger.Logger) *GetOrderUseCase {
	return &GetOrderUseCase{orders: orders, cache: cache, log: log}
}

type GetOrderRequest struct {
	OrderID uint
	UserID  uint
	IsAdmin bool
}

// Execute 非管理员只能查看自己的订单，他人的订单按不存在处理
func (uc *GetOrderUseCase) Execute(ctx context.Context, req GetOrderRequest) (*OrderResponse, error) {
	o, err := uc.cache.Get(ctx, req.OrderID)
	if err != nil {
		uc.log.WithContext(ctx).Warn("读取订单缓存失败", "order_id", req.OrderID, "error", err)
	}
	if o == nil {
		if o, err = uc.orders.FindByID(ctx, req.OrderID); err != nil {
			return nil, err
		}
		if err := uc.cache.Set(ctx, o); err != nil {
			uc.log.WithContext(ctx).Warn("写入订单缓存失败", "order_id", o.ID, "error", err)
		}
	}

	if !req.IsAdmin && !o.IsOwnedBy(req.UserID) {
		return nil, order.ErrOrderNotFound
	}
	return NewOrderResponse(o), nil
}

// ListOrdersUseCase 用户订单列表
type ListOrdersUseCase struct {
	orders order.Repository
}

func NewListOrdersUseCase(orders order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orders: orders}
}

type ListOrdersRequest struct {
	UserID   uint
	Page     int
	PageSize int
}

type ListOrdersResponse struct {
	Orders   []*OrderResponse
	Total    int64
	Page     int
	PageSize int
}

func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	orders, total, err := uc.orders.ListByUserID(ctx, req.UserID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		list[i] = NewOrderResponse(o)
	}
	return &ListOrdersResponse{Orders: list, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}
