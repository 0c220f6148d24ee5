// Package response gin接口的统一响应封装
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// requestIDKey 与日志中间件写入gin.Context的键一致
const requestIDKey = "request_id"

// Response 统一响应结构
//
// Code为业务码，0表示成功；HTTP状态码由错误类别决定。
// Details携带错误的结构化信息，例如库存不足时的图书ID、需要数量与剩余库存。
type Response struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Data      any            `json:"data,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Message: "success", Data: data})
}

// Created 下单、上架等创建类接口返回201
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Message: "success", Data: data})
}

// Error 按AppError的类别写出错误响应
// 非AppError一律按内部错误处理，原始错误只进c.Errors由日志中间件记录
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}

	c.JSON(appErr.HTTPStatus(), Response{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		RequestID: c.GetString(requestIDKey),
	})
}

// AbortWithError 中间件使用：写入错误并终止后续Handler
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// PageData 分页数据
type PageData struct {
	List       any   `json:"list"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewPageData(list any, total int64, page, pageSize int) *PageData {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PageData{List: list, Total: total, Page: page, PageSize: pageSize, TotalPages: pages}
}

// SuccessWithPage 图书列表、订单列表使用
func SuccessWithPage(c *gin.Context, list any, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
