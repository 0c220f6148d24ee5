package order

import "time"

// KindOrderReceived 下单成功通知
const KindOrderReceived = "OrderReceived"

// Notification 发给下单用户的通知
type Notification struct {
	UserID    uint      `json:"user_id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	OrderCode string    `json:"order_code"`
}

// NewOrderReceived 根据已提交的订单生成通知
func NewOrderReceived(o *Order) Notification {
	return Notification{
		UserID:    o.UserID,
		Kind:      KindOrderReceived,
		Timestamp: o.CreatedAt,
		OrderCode: o.Code,
	}
}
