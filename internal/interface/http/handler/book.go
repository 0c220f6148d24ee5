package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookclub/internal/application/book"
	"github.com/xiebiao/bookclub/internal/interface/http/dto"
	"github.com/xiebiao/bookclub/internal/interface/http/middleware"
	"github.com/xiebiao/bookclub/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publish *appbook.PublishBookUseCase
	update  *appbook.UpdateBookUseCase
	stock   *appbook.ManageStockUseCase
	active  *appbook.SetActiveUseCase
	list    *appbook.ListBooksUseCase
	get     *appbook.GetBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publish *appbook.PublishBookUseCase,
	update *appbook.UpdateBookUseCase,
	stock *appbook.ManageStockUseCase,
	active *appbook.SetActiveUseCase,
	list *appbook.ListBooksUseCase,
	get *appbook.GetBookUseCase,
) *BookHandler {
	return &BookHandler{publish: publish, update: update, stock: stock, active: active, list: list, get: get}
}

// PublishBook 上架图书
// @Summary      上架图书
// @Description  管理员上架图书，初始库存按进价从平台资金扣款
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "参数错误或平台资金不足"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      409 {object} response.Response "同名同作者图书已上架"
// @Router       /api/v1/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.publish.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Cover:       req.Cover,
		Stock:       req.Stock,
		Genre:       req.Genre,
		Language:    req.Language,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "同名同作者图书已上架"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.update.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:            id,
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		Cover:         req.Cover,
		Genre:         req.Genre,
		Language:      req.Language,
		PurchasePrice: req.PurchasePrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ManageStock 库存操作
// @Summary      库存操作
// @Description  add补货（扣平台资金）、decrease减少、set盘点
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.ManageStockRequest true "操作"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      409 {object} response.Response "库存不足"
// @Router       /api/v1/books/{id}/stock [post]
func (h *BookHandler) ManageStock(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ManageStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.stock.Execute(c.Request.Context(), appbook.ManageStockRequest{
		BookID:   id,
		Op:       appbook.StockOp(req.Op),
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Deactivate 下架
// @Summary      下架图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Router       /api/v1/books/{id}/deactivate [post]
func (h *BookHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

// Reactivate 重新上架
// @Summary      重新上架图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      409 {object} response.Response "同名同作者图书已上架"
// @Router       /api/v1/books/{id}/reactivate [post]
func (h *BookHandler) Reactivate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *BookHandler) setActive(c *gin.Context, active bool) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.active.Execute(c.Request.Context(), id, active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询上架图书，支持关键字、类型、排序
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "书名或作者"
// @Param        genre query string false "类型"
// @Param        sort_by query string false "price_asc | price_desc | created_at_desc"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookListItem}}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.list.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Genre:    req.Genre,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetBook 图书详情，管理员可查看已下架图书
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.get.Execute(c.Request.Context(), id, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
