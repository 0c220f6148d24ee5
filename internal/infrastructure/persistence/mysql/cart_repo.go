package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookclub/internal/domain/cart"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(ctx context.Context, item *cart.CartItem) error {
	model := &CartItemModel{UserID: item.UserID, BookID: item.BookID, Quantity: item.Quantity}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry.WithErr(err)
		}
		return apperrors.Wrap(err, "加入购物车失败")
	}
	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *cartRepository) FindByID(ctx context.Context, id uint) (*cart.CartItem, error) {
	var model CartItemModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, notFoundOr(err, cart.ErrCartItemNotFound, "查询购物车失败")
	}
	return toCartEntity(&model), nil
}

func (r *cartRepository) FindByUserAndBook(ctx context.Context, userID, bookID uint) (*cart.CartItem, error) {
	return r.findByUserAndBook(getDB(ctx, r.db), userID, bookID)
}

func (r *cartRepository) LockByUserAndBook(ctx context.Context, userID, bookID uint) (*cart.CartItem, error) {
	return r.findByUserAndBook(getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), userID, bookID)
}

func (r *cartRepository) findByUserAndBook(db *gorm.DB, userID, bookID uint) (*cart.CartItem, error) {
	var model CartItemModel
	err := db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&model).Error
	if err != nil {
		return nil, notFoundOr(err, cart.ErrCartItemNotFound, "查询购物车失败")
	}
	return toCartEntity(&model), nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	result := getDB(ctx, r.db).Model(&CartItemModel{}).Where("id = ?", id).Update("quantity", quantity)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&CartItemModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除购物车条目失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]*cart.CartItem, error) {
	return r.list(getDB(ctx, r.db), userID)
}

// LockByUser 锁定用户的全部购物车行，防止下单期间被并发修改
func (r *cartRepository) LockByUser(ctx context.Context, userID uint) ([]*cart.CartItem, error) {
	return r.list(getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *cartRepository) list(db *gorm.DB, userID uint) ([]*cart.CartItem, error) {
	var models []CartItemModel
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}
	items := make([]*cart.CartItem, len(models))
	for i := range models {
		items[i] = toCartEntity(&models[i])
	}
	return items, nil
}

func (r *cartRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Delete(&CartItemModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

func toCartEntity(m *CartItemModel) *cart.CartItem {
	return &cart.CartItem{
		ID:        m.ID,
		UserID:    m.UserID,
		BookID:    m.BookID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
