package cart

import (
	"fmt"

	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

var (
	// ErrCartItemNotFound 条目不存在或不属于当前用户
	ErrCartItemNotFound = apperrors.New(apperrors.ErrCodeCartItemNotFound, "购物车条目不存在")

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车为空")

	ErrInvalidQuantity  = apperrors.New(apperrors.ErrCodeInvalidParams, fmt.Sprintf("数量必须在1-%d之间", MaxItemQuantity))
	ErrQuantityExceeded = apperrors.New(apperrors.ErrCodeInvalidParams, fmt.Sprintf("同一本书在购物车中最多%d本", MaxItemQuantity))
)
