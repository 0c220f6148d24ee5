package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/bookclub/internal/application/cart"
	"github.com/xiebiao/bookclub/internal/interface/http/dto"
	"github.com/xiebiao/bookclub/internal/interface/http/middleware"
	"github.com/xiebiao/bookclub/pkg/response"
)

// CartHandler 购物车HTTP处理器，只能操作自己的购物车
type CartHandler struct {
	add    *appcart.AddItemUseCase
	set    *appcart.SetQuantityUseCase
	remove *appcart.RemoveItemUseCase
	get    *appcart.GetCartUseCase
}

func NewCartHandler(
	add *appcart.AddItemUseCase,
	set *appcart.SetQuantityUseCase,
	remove *appcart.RemoveItemUseCase,
	get *appcart.GetCartUseCase,
) *CartHandler {
	return &CartHandler{add: add, set: set, remove: remove, get: get}
}

// GetCart 查看购物车
// @Summary      查看购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartResponse}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	result, err := h.get.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddItem 加购
// @Summary      加入购物车
// @Description  同一本书合并数量，合并后不能超过10本
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "图书与数量"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "数量超限"
// @Failure      404 {object} response.Response "图书不存在或已下架"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	item, err := h.add.Execute(c.Request.Context(), appcart.AddItemRequest{
		UserID:   middleware.MustGetUserID(c),
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": item.ID, "book_id": item.BookID, "quantity": item.Quantity})
}

// SetQuantity 修改数量
// @Summary      修改购物车数量
// @Description  quantity为0时删除条目
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "条目ID"
// @Param        request body dto.SetCartItemRequest true "数量"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "条目不存在"
// @Router       /api/v1/cart/items/{id} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SetCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	item, err := h.set.Execute(c.Request.Context(), appcart.SetQuantityRequest{
		UserID:   middleware.MustGetUserID(c),
		ItemID:   id,
		Quantity: *req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if item == nil {
		response.Success(c, gin.H{"id": id, "deleted": true})
		return
	}
	response.Success(c, gin.H{"id": item.ID, "book_id": item.BookID, "quantity": item.Quantity})
}

// RemoveItem 删除条目
// @Summary      删除购物车条目
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "条目ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.remove.Execute(c.Request.Context(), middleware.MustGetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": id, "deleted": true})
}
