package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/xiebiao/bookclub/internal/domain/book"
)

type bookRepository struct {
	store *Store
}

// NewBookRepository 创建图书仓储
func NewBookRepository(store *Store) book.Repository {
	return &bookRepository{store: store}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	return r.store.write(ctx, func(st *state) error {
		st.nextBookID++
		b.ID = st.nextBookID
		now := time.Now()
		b.CreatedAt, b.UpdatedAt = now, now
		st.books[b.ID] = copyBook(b)
		return nil
	})
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var found *book.Book
	err := r.store.read(ctx, func(st *state) error {
		b, ok := st.books[id]
		if !ok {
			return book.ErrBookNotFound
		}
		found = copyBook(b)
		return nil
	})
	return found, err
}

func (r *bookRepository) FindActiveByTitleAuthor(ctx context.Context, title, author string) (*book.Book, error) {
	var found *book.Book
	err := r.store.read(ctx, func(st *state) error {
		for _, id := range sortedIDs(st.books) {
			b := st.books[id]
			if b.IsActive && b.SameTitleAuthor(title, author) {
				found = copyBook(b)
				return nil
			}
		}
		return book.ErrBookNotFound
	})
	return found, err
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	return r.store.write(ctx, func(st *state) error {
		existing, ok := st.books[b.ID]
		if !ok {
			return book.ErrBookNotFound
		}
		cp := copyBook(b)
		cp.Stock = existing.Stock
		cp.CreatedAt = existing.CreatedAt
		cp.UpdatedAt = time.Now()
		b.UpdatedAt = cp.UpdatedAt
		st.books[b.ID] = cp
		return nil
	})
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var (
		out   []*book.Book
		total int64
	)
	err := r.store.read(ctx, func(st *state) error {
		keyword := strings.ToLower(strings.TrimSpace(params.Keyword))
		var matched []*book.Book
		for _, id := range sortedIDs(st.books) {
			b := st.books[id]
			if !b.IsActive {
				continue
			}
			if params.Genre != "" && b.Genre != params.Genre {
				continue
			}
			if keyword != "" &&
				!strings.Contains(strings.ToLower(b.Title), keyword) &&
				!strings.Contains(strings.ToLower(b.Author), keyword) {
				continue
			}
			matched = append(matched, b)
		}

		switch params.SortBy {
		case "price_asc":
			slices.SortStableFunc(matched, func(a, b *book.Book) int { return a.SalePrice.Cmp(b.SalePrice) })
		case "price_desc":
			slices.SortStableFunc(matched, func(a, b *book.Book) int { return b.SalePrice.Cmp(a.SalePrice) })
		default:
			slices.SortStableFunc(matched, func(a, b *book.Book) int { return desc(a.ID, b.ID) })
		}

		total = int64(len(matched))
		start, end := paginate(len(matched), params.Page, params.PageSize)
		for _, b := range matched[start:end] {
			out = append(out, copyBook(b))
		}
		return nil
	})
	return out, total, err
}

// LockByID 内存引擎的事务本身是串行的，无需额外加锁
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	return r.store.write(ctx, func(st *state) error {
		b, ok := st.books[id]
		if !ok {
			return book.ErrBookNotFound
		}
		if b.Stock+delta < 0 {
			return book.InsufficientStock(b, -delta)
		}
		b.Stock += delta
		b.UpdatedAt = time.Now()
		return nil
	})
}

func (r *bookRepository) SetStock(ctx context.Context, id uint, stock int) error {
	return r.store.write(ctx, func(st *state) error {
		b, ok := st.books[id]
		if !ok {
			return book.ErrBookNotFound
		}
		b.Stock = stock
		b.UpdatedAt = time.Now()
		return nil
	})
}
