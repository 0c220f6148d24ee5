package dto

// CreateOrderRequest 下单请求，订单明细取自当前用户的购物车
// 联系信息留空的字段使用用户资料
type CreateOrderRequest struct {
	Contact    ContactRequest   `json:"contact"`
	IsDelivery bool             `json:"is_delivery" example:"true"`
	Shipping   *ShippingRequest `json:"shipping,omitempty"`
	Status     string           `json:"status,omitempty" example:"pending"`
}

type ContactRequest struct {
	Email         string `json:"email" binding:"omitempty,email" example:"reader@example.com"`
	Phone         string `json:"phone" binding:"omitempty,max=32" example:"+51 999 888 777"`
	FullName      string `json:"full_name" binding:"omitempty,max=100" example:"Ana Torres"`
	RecipientName string `json:"recipient_name" binding:"omitempty,max=100" example:"Ana Torres"`
}

type ShippingRequest struct {
	Address   string `json:"address" example:"Av. Larco 123"`
	City      string `json:"city" example:"Lima"`
	District  string `json:"district" example:"Miraflores"`
	Reference string `json:"reference" example:"Frente al parque"`
}

// UpdateOrderStatusRequest 修改订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"in progress"`
}
