package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookclub/internal/application/order"
	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/internal/interface/http/dto"
	"github.com/xiebiao/bookclub/internal/interface/http/middleware"
	"github.com/xiebiao/bookclub/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	create *apporder.CreateOrderUseCase
	update *apporder.UpdateStatusUseCase
	get    *apporder.GetOrderUseCase
	list   *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	create *apporder.CreateOrderUseCase,
	update *apporder.UpdateStatusUseCase,
	get *apporder.GetOrderUseCase,
	list *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{create: create, update: update, get: get, list: list}
}

// CreateOrder 购物车下单
// @Summary      创建订单
// @Description  把当前用户的购物车转换为订单：扣减库存、清空购物车、订单金额计入平台资金，全部在一个事务内完成
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "联系与配送信息"
// @Success      201 {object} response.Response{data=apporder.OrderResponse} "下单成功"
// @Failure      400 {object} response.Response "购物车为空、配送信息不匹配、状态不合法"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在或已下架"
// @Failure      409 {object} response.Response "库存不足"
// @Failure      429 {object} response.Response "下单过于频繁"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
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

	result, err := h.create.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID: middleware.MustGetUserID(c),
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
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateStatus 修改订单状态
// @Summary      修改订单状态
// @Description  pending、in progress、delivered之间任意切换
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      400 {object} response.Response "状态不合法"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.update.Execute(c.Request.Context(), apporder.UpdateStatusRequest{OrderID: id, Status: req.Status})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetOrder 订单详情
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.get.Execute(c.Request.Context(), apporder.GetOrderRequest{
		OrderID: id,
		UserID:  middleware.MustGetUserID(c),
		IsAdmin: middleware.IsAdmin(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOrders 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]apporder.OrderResponse}}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.list.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		UserID:   middleware.MustGetUserID(c),
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.Orders, result.Total, result.Page, result.PageSize)
}
