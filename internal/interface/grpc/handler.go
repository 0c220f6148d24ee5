package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	apporder "github.com/xiebiao/bookclub/internal/application/order"
	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// OrderServer 订单服务实现，复用HTTP接口的请求DTO
type OrderServer struct {
	create *apporder.CreateOrderUseCase
	update *apporder.UpdateStatusUseCase
}

// NewOrderServer 创建订单服务
func NewOrderServer(create *apporder.CreateOrderUseCase, update *apporder.UpdateStatusUseCase) *OrderServer {
	return &OrderServer{create: create, update: update}
}

var _ OrderServiceServer = (*OrderServer)(nil)

// updateOrderStatusRequest gRPC调用需要在消息体中携带订单ID
type updateOrderStatusRequest struct {
	OrderID uint `json:"order_id"`
	dto.UpdateOrderStatusRequest
}

// CreateOrder 当前调用方的购物车下单
func (s *OrderServer) CreateOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, ok := callerFrom(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	var req dto.CreateOrderRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	var shipping *order.Shipping
	if req.Shipping != nil {
		shipping = &order.Shipping{
			Address:   req.Shipping.Address,
			City:      req.Shipping.City,
			District:  req.Shipping.District,
			Reference: req.Shipping.Reference,
		}
	}

	result, err := s.create.Execute(ctx, apporder.CreateOrderRequest{
		UserID: caller.UserID,
		Contact: apporder.ContactInput{
			Email:         req.Contact.Email,
			Phone:         req.Contact.Phone,
			FullName:      req.Contact.FullName,
			RecipientName: req.Contact.RecipientName,
		},
		IsDelivery: req.IsDelivery,
		Shipping:   shipping,
		Status:     req.Status,
	})
	if err != nil {
		return nil, err
	}
	return encode(result)
}

// UpdateOrderStatus 仅管理员可调用
func (s *OrderServer) UpdateOrderStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, ok := callerFrom(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	if !caller.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	var req updateOrderStatusRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if req.OrderID == 0 {
		return nil, apperrors.ErrInvalidParams.WithDetails(map[string]any{"order_id": "必填"})
	}

	result, err := s.update.Execute(ctx, apporder.UpdateStatusRequest{OrderID: req.OrderID, Status: req.Status})
	if err != nil {
		return nil, err
	}
	return encode(result)
}

// decode Struct → JSON → DTO
func decode(in *structpb.Struct, out any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return apperrors.ErrBindError.WithErr(err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.ErrBindError.WithErr(err)
	}
	return nil
}

// encode DTO → JSON → Struct
func encode(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.Wrap(err, "序列化响应失败")
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, apperrors.Wrap(err, "序列化响应失败")
	}
	return out, nil
}
