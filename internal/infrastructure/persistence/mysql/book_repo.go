package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookclub/internal/domain/book"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, notFoundOr(err, book.ErrBookNotFound, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) FindActiveByTitleAuthor(ctx context.Context, title, author string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Where("is_active = ?", true).
		Where("LOWER(TRIM(title)) = ? AND LOWER(TRIM(author)) = ?", book.NormalizeKey(title), book.NormalizeKey(author)).
		Order("id ASC").
		First(&model).Error
	if err != nil {
		return nil, notFoundOr(err, book.ErrBookNotFound, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新除库存外的字段（库存只走UpdateStock/SetStock）
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	result := getDB(ctx, r.db).Model(&BookModel{ID: b.ID}).
		Select("title", "author", "description", "cover", "purchase_price", "sale_price", "genre", "language", "is_active").
		Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, b.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var (
		models []BookModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&BookModel{}).Where("is_active = ?", true)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", keyword, keyword)
	}
	if params.Genre != "" {
		query = query.Where("genre = ?", string(params.Genre))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	switch params.SortBy {
	case "price_asc":
		query = query.Order("sale_price ASC")
	case "price_desc":
		query = query.Order("sale_price DESC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	err := query.Limit(params.PageSize).Offset(pageOffset(params.Page, params.PageSize)).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// LockByID SELECT ... FOR UPDATE，必须在事务中调用
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		return nil, notFoundOr(err, book.ErrBookNotFound, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// UpdateStock UPDATE books SET stock = stock + ? WHERE id = ? AND stock + ? >= 0
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在，或者库存不足
		b, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return book.InsufficientStock(b, -delta)
	}
	return nil
}

func (r *bookRepository) SetStock(ctx context.Context, id uint, stock int) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "设置库存失败")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Cover:         b.Cover,
		Stock:         b.Stock,
		PurchasePrice: b.PurchasePrice,
		SalePrice:     b.SalePrice,
		Genre:         string(b.Genre),
		Language:      string(b.Language),
		IsActive:      b.IsActive,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:            m.ID,
		Title:         m.Title,
		Author:        m.Author,
		Description:   m.Description,
		Cover:         m.Cover,
		Stock:         m.Stock,
		PurchasePrice: m.PurchasePrice,
		SalePrice:     m.SalePrice,
		Genre:         book.Genre(m.Genre),
		Language:      book.Language(m.Language),
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// notFoundOr 记录不存在时返回notFound，其他错误包装为内部错误
func notFoundOr(err error, notFound *apperrors.AppError, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(err, msg)
}
