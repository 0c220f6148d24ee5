package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/cart"
)

// CartItemResponse 购物车条目DTO，附带当前图书信息
type CartItemResponse struct {
	ID        uint   `json:"id"`
	BookID    uint   `json:"book_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Cover     string `json:"cover"`
	SalePrice string `json:"sale_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
	Available bool   `json:"available"` // 图书仍上架且库存足够
}

// CartResponse 购物车DTO
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total string             `json:"total"`
}

// AddItemUseCase 加购（同一本书合并数量）
type AddItemUseCase struct {
	cartService cart.Service
}

func NewAddItemUseCase(cartService cart.Service) *AddItemUseCase {
	return &AddItemUseCase{cartService: cartService}
}

type AddItemRequest struct {
	UserID   uint
	BookID   uint
	Quantity int
}

func (uc *AddItemUseCase) Execute(ctx context.Context, req AddItemRequest) (*cart.CartItem, error) {
	return uc.cartService.AddOrMergeItem(ctx, req.UserID, req.BookID, req.Quantity)
}

// SetQuantityUseCase 修改数量，0表示删除
type SetQuantityUseCase struct {
	cartService cart.Service
}

func NewSetQuantityUseCase(cartService cart.Service) *SetQuantityUseCase {
	return &SetQuantityUseCase{cartService: cartService}
}

type SetQuantityRequest struct {
	UserID   uint
	ItemID   uint
	Quantity int
}

// Execute 删除时返回(nil, nil)
func (uc *SetQuantityUseCase) Execute(ctx context.Context, req SetQuantityRequest) (*cart.CartItem, error) {
	return uc.cartService.SetQuantity(ctx, req.ItemID, req.UserID, req.Quantity)
}

// RemoveItemUseCase 删除条目
type RemoveItemUseCase struct {
	cartService cart.Service
}

func NewRemoveItemUseCase(cartService cart.Service) *RemoveItemUseCase {
	return &RemoveItemUseCase{cartService: cartService}
}

func (uc *RemoveItemUseCase) Execute(ctx context.Context, userID, itemID uint) error {
	return uc.cartService.RemoveItem(ctx, itemID, userID)
}

// GetCartUseCase 查看购物车
// 按当前售价估算总额，实际金额以下单时锁定的价格为准
type GetCartUseCase struct {
	cartService cart.Service
	books       book.Repository
}

func NewGetCartUseCase(cartService cart.Service, books book.Repository) *GetCartUseCase {
	return &GetCartUseCase{cartService: cartService, books: books}
}

func (uc *GetCartUseCase) Execute(ctx context.Context, userID uint) (*CartResponse, error) {
	items, err := uc.cartService.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{Items: make([]CartItemResponse, 0, len(items))}
	total := decimal.Zero
	for _, item := range items {
		row := CartItemResponse{ID: item.ID, BookID: item.BookID, Quantity: item.Quantity, SalePrice: "0.00", Subtotal: "0.00"}

		b, err := uc.books.FindByID(ctx, item.BookID)
		switch {
		case err == nil:
			subtotal := b.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			row.Title = b.Title
			row.Author = b.Author
			row.Cover = b.Cover
			row.SalePrice = b.SalePrice.StringFixed(2)
			row.Subtotal = subtotal.StringFixed(2)
			row.Available = b.IsActive && b.Stock >= item.Quantity
			if b.IsActive {
				total = total.Add(subtotal)
			}
		case errors.Is(err, book.ErrBookNotFound):
		default:
			return nil, err
		}
		resp.Items = append(resp.Items, row)
	}
	resp.Total = total.StringFixed(2)
	return resp, nil
}
