package order

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/metrics"
	"github.com/xiebiao/bookclub/pkg/tracing"
)

// UpdateStatusUseCase 修改订单状态
// 状态之间没有流转限制，任意状态可改为任意其他合法状态
type UpdateStatusUseCase struct {
	orders order.Repository
	cache  Cache
	log    *logger.Logger
}

func NewUpdateStatusUseCase(orders order.Repository, cache Cache, log *logger.Logger) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{orders: orders, cache: cache, log: log}
}

type UpdateStatusRequest struct {
	OrderID uint
	Status  string
}

// Execute 订单不存在返回ErrOrderNotFound，状态不合法返回ErrInvalidStatus
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, req UpdateStatusRequest) (resp *OrderResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "order.UpdateOrderStatus",
		attribute.Int64("order.id", int64(req.OrderID)),
		attribute.String("order.status", req.Status),
	)
	defer func() { tracing.EndSpan(span, err) }()

	o, err := uc.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	previous := o.Status
	if err := o.ChangeStatus(status); err != nil {
		return nil, err
	}
	if err := uc.orders.UpdateStatus(ctx, o.ID, o.Status); err != nil {
		return nil, err
	}

	// 写入新版本，并发查询回填的旧状态不会再覆盖它
	if err := uc.cache.Set(ctx, o); err != nil {
		uc.log.WithContext(ctx).Warn("写入订单缓存失败", "order_id", o.ID, "error", err)
		if err := uc.cache.Invalidate(ctx, o.ID); err != nil {
			uc.log.WithContext(ctx).Warn("删除订单缓存失败", "order_id", o.ID, "error", err)
		}
	}
	metrics.RecordStatusUpdate(string(status))
	uc.log.WithContext(ctx).Info("订单状态已更新",
		"order_id", o.ID, "from", string(previous), "to", string(status))

	return NewOrderResponse(o), nil
}
