package ledger

import (
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

var (
	// ErrAccountNotFound 账户不存在或不是管理员
	ErrAccountNotFound = apperrors.New(apperrors.ErrCodeAccountNotFound, "资金账户不存在")

	// ErrInsufficientCapital 出账后余额为负
	ErrInsufficientCapital = apperrors.New(apperrors.ErrCodeInsufficientCapital, "平台资金不足")

	// ErrInvalidAmount 金额为负
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "金额不能为负数")
)
