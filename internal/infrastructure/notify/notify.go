// Package notify 下单通知的投递实现
//
//   - MQNotifier：发布order.received到RabbitMQ，外面包一层熔断器
//   - InboxNotifier：直接写入Redis用户收件箱（没有消息队列的部署使用）
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/pkg/circuitbreaker"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/metrics"
	"github.com/xiebiao/bookclub/pkg/mq"
)

// Publisher 消息发布（*mq.Publisher）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// InboxWriter 收件箱写入（*redis.Inbox）
type InboxWriter interface {
	Push(ctx context.Context, userID uint, payload []byte) error
}

// MQNotifier 通过消息队列发送通知
type MQNotifier struct {
	publisher  Publisher
	routingKey string
	breaker    *circuitbreaker.CircuitBreaker
}

// NewMQNotifier 创建消息队列通知器
// 熔断打开期间直接返回circuitbreaker.ErrOpenState，不再访问Broker
func NewMQNotifier(publisher Publisher, routingKey string, breaker *circuitbreaker.CircuitBreaker, log *logger.Logger) *MQNotifier {
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
	})
	return &MQNotifier{
		publisher:  publisher,
		routingKey: routingKey,
		breaker:    breaker,
	}
}

func (n *MQNotifier) Notify(ctx context.Context, msg order.Notification) error {
	err := n.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		return n.publisher.Publish(ctx, n.routingKey, msg)
	})

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.RecordBreaker(n.breaker.Name(), result, int(n.breaker.State()))

	if err != nil {
		return fmt.Errorf("发布下单通知失败: %w", err)
	}
	return nil
}

// InboxNotifier 直接写入用户收件箱
type InboxNotifier struct {
	inbox InboxWriter
}

func NewInboxNotifier(inbox InboxWriter) *InboxNotifier {
	return &InboxNotifier{inbox: inbox}
}

func (n *InboxNotifier) Notify(ctx context.Context, msg order.Notification) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化通知失败: %w", err)
	}
	return n.inbox.Push(ctx, msg.UserID, payload)
}

// InboxHandler 消费order.received消息并写入收件箱（cmd/notifier使用）
// 无法解析或缺少用户ID的消息返回mq.ErrDrop
func InboxHandler(inbox InboxWriter) mq.Handler {
	return func(ctx context.Context, body []byte) error {
		var msg order.Notification
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("%w: %v", mq.ErrDrop, err)
		}
		if msg.UserID == 0 || msg.Kind == "" {
			return fmt.Errorf("%w: 通知缺少user_id或kind", mq.ErrDrop)
		}
		return inbox.Push(ctx, msg.UserID, body)
	}
}
