package book

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/pkg/validation"
)

// UpdateBookUseCase 修改图书信息与进价
type UpdateBookUseCase struct {
	bookService book.Service
	validator   *validation.Validator
}

func NewUpdateBookUseCase(bookService book.Service, validator *validation.Validator) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, validator: validator}
}

type UpdateBookRequest struct {
	ID            uint   `json:"-"`
	Title         string `json:"title" validate:"required,max=200"`
	Author        string `json:"author" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=5000"`
	Cover         string `json:"cover" validate:"omitempty,url"`
	Genre         string `json:"genre" validate:"required"`
	Language      string `json:"language" validate:"required"`
	PurchasePrice string `json:"purchase_price" validate:"required"`
}

// Execute 售价随进价重算；与其他上架图书同名同作者时返回ErrDuplicateBook
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookResponse, error) {
	if err := uc.validator.Validate(req); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil {
		return nil, book.ErrInvalidPrice.WithErr(err)
	}

	b, err := uc.bookService.Update(ctx, req.ID, book.UpdateParams{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		Cover:         req.Cover,
		Genre:         req.Genre,
		Language:      req.Language,
		PurchasePrice: price,
	})
	if err != nil {
		return nil, err
	}
	return NewBookResponse(b), nil
}

// SetActiveUseCase 下架/重新上架
type SetActiveUseCase struct {
	bookService book.Service
}

func NewSetActiveUseCase(bookService book.Service) *SetActiveUseCase {
	return &SetActiveUseCase{bookService: bookService}
}

func (uc *SetActiveUseCase) Execute(ctx context.Context, id uint, active bool) (*BookResponse, error) {
	var (
		b   *book.Book
		err error
	)
	if active {
		b, err = uc.bookService.Reactivate(ctx, id)
	} else {
		b, err = uc.bookService.Deactivate(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return NewBookResponse(b), nil
}
