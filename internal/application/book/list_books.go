package book

import (
	"context"

	"github.com/xiebiao/bookclub/internal/domain/book"
)

// ListBooksUseCase 上架图书列表
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page     int
	PageSize int
	Keyword  string // 搜索书名、作者
	Genre    string // 为空表示不限
	SortBy   string // price_asc | price_desc | created_at_desc
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List     []BookListItem
	Total    int64
	Page     int
	PageSize int
}

// Execute 类型参数非法时返回ErrInvalidGenre
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	params := book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	}
	if req.Genre != "" {
		genre, err := book.ParseGenre(req.Genre)
		if err != nil {
			return nil, err
		}
		params.Genre = genre
	}

	books, total, err := uc.bookService.List(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = BookListItem{
			ID:        b.ID,
			Title:     b.Title,
			Author:    b.Author,
			Cover:     b.Cover,
			Stock:     b.Stock,
			SalePrice: b.SalePrice.StringFixed(2),
			Genre:     string(b.Genre),
			Language:  string(b.Language),
		}
	}

	page, pageSize := params.Page, params.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return &ListBooksResponse{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetBookUseCase 图书详情
// 管理员可以查看下架图书，其他人查看下架图书按不存在处理
type GetBookUseCase struct {
	bookService book.Service
}

func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

func (uc *GetBookUseCase) Execute(ctx context.Context, id uint, isAdmin bool) (*BookResponse, error) {
	b, err := uc.bookService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsActive && !isAdmin {
		return nil, book.ErrBookNotFound
	}
	return NewBookResponse(b), nil
}
