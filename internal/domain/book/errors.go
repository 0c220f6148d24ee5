package book

import (
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在（含已下架）
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrDuplicateBook 已存在同名同作者的上架图书
	ErrDuplicateBook = apperrors.New(apperrors.ErrCodeDuplicateEntry, "已存在同名同作者的图书")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.ErrInsufficientStock

	ErrInvalidGenre       = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的图书类型")
	ErrInvalidLanguage    = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的图书语言")
	ErrInvalidPrice       = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")
	ErrInvalidStock       = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")
	ErrInvalidQuantity    = apperrors.New(apperrors.ErrCodeInvalidParams, "数量不能为负数")
	ErrBlankTitleOrAuthor = apperrors.New(apperrors.ErrCodeInvalidParams, "书名和作者不能为空")
	ErrAlreadyActive      = apperrors.New(apperrors.ErrCodeInvalidParams, "图书已处于上架状态")
)

// InsufficientStock 带详情的库存不足错误
func InsufficientStock(b *Book, requested int) error {
	return ErrInsufficientStock.WithDetails(map[string]any{
		"book_id":   b.ID,
		"title":     b.Title,
		"available": b.Stock,
		"requested": requested,
	})
}
