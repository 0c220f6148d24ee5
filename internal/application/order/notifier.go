package order

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/metrics"
)

// Notifier 通知投递（消息队列、Redis收件箱）
type Notifier interface {
	Notify(ctx context.Context, msg order.Notification) error
}

// NopNotifier 不发送任何通知
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, order.Notification) error { return nil }

// Dispatcher 在事务提交后异步发送通知
// 通知失败只记录日志和指标，不影响已提交的订单
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      *logger.Logger
	wg       sync.WaitGroup
}

// NewDispatcher 创建通知分发器，timeout<=0时使用3秒
func NewDispatcher(notifier Notifier, timeout time.Duration, log *logger.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, log: log}
}

// Dispatch 异步发送，不受请求ctx取消影响，但保留其中的trace信息
func (d *Dispatcher) Dispatch(ctx context.Context, msg order.Notification) {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		err := d.notifier.Notify(ctx, msg)
		metrics.RecordNotification(err)
		if err != nil {
			d.log.WithContext(ctx).Warn("下单通知发送失败",
				"user_id", msg.UserID, "order_code", msg.OrderCode, "error", err)
		}
	}()
}

// Wait 等待已分发的通知全部完成（优雅退出使用）
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
