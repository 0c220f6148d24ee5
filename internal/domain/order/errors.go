package order

import (
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrInvalidStatus 订单状态不在pending/in progress/delivered之内
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不合法")

	ErrEmptyItems         = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")
	ErrInvalidQuantity    = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")
	ErrShippingRequired   = apperrors.New(apperrors.ErrCodeInvalidParams, "配送订单必须填写配送信息")
	ErrShippingNotAllowed = apperrors.New(apperrors.ErrCodeInvalidParams, "自提订单不能填写配送信息")

	// ErrDuplicateCode 订单号冲突（唯一索引兜底）
	ErrDuplicateCode = apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号已存在")

	// ErrCodeExhausted 多次重试仍未生成可用订单号
	ErrCodeExhausted = apperrors.New(apperrors.ErrCodeInternal, "订单号生成失败")
)
