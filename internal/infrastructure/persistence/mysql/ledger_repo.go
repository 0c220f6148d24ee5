package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/user"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// ledgerRepository 资金账户就是管理员用户的capital列，流水写入ledger_entries
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建资金账本仓储
func NewLedgerRepository(db *gorm.DB) ledger.Repository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) account(db *gorm.DB, accountID uint) (decimal.Decimal, error) {
	var model UserModel
	err := db.Select("id", "capital").
		Where("id = ? AND role = ?", accountID, string(user.RoleAdmin)).
		First(&model).Error
	if err != nil {
		return decimal.Zero, notFoundOr(err, ledger.ErrAccountNotFound, "查询资金账户失败")
	}
	return model.Capital, nil
}

// LockAccount SELECT capital ... FOR UPDATE，串行化同一账户的资金变动
func (r *ledgerRepository) LockAccount(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	return r.account(getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), accountID)
}

// AdjustBalance UPDATE users SET capital = capital + ? WHERE ... AND capital + ? >= 0
func (r *ledgerRepository) AdjustBalance(ctx context.Context, accountID uint, delta decimal.Decimal) error {
	result := getDB(ctx, r.db).Model(&UserModel{}).
		Where("id = ? AND role = ?", accountID, string(user.RoleAdmin)).
		Where("capital + ? >= 0", delta).
		Update("capital", gorm.Expr("capital + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "调整平台资金失败")
	}
	if result.RowsAffected == 0 {
		if _, err := r.Balance(ctx, accountID); err != nil {
			return err
		}
		return ledger.ErrInsufficientCapital
	}
	return nil
}

func (r *ledgerRepository) AppendEntry(ctx context.Context, e *ledger.Entry) error {
	model := &LedgerEntryModel{
		ID:            e.ID,
		AccountID:     e.AccountID,
		Kind:          string(e.Kind),
		Reason:        string(e.Reason),
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		RefID:         e.RefID,
		CreatedAt:     e.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入资金流水失败")
	}
	return nil
}

func (r *ledgerRepository) Balance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	return r.account(getDB(ctx, r.db), accountID)
}

func (r *ledgerRepository) ListEntries(ctx context.Context, accountID uint, page, pageSize int) ([]*ledger.Entry, int64, error) {
	var (
		models []LedgerEntryModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&LedgerEntryModel{}).Where("account_id = ?", accountID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询资金流水失败")
	}
	err := getDB(ctx, r.db).Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(pageSize).Offset(pageOffset(page, pageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询资金流水失败")
	}

	entries := make([]*ledger.Entry, len(models))
	for i, m := range models {
		entries[i] = &ledger.Entry{
			ID:            m.ID,
			AccountID:     m.AccountID,
			Kind:          ledger.Kind(m.Kind),
			Reason:        ledger.Reason(m.Reason),
			Amount:        m.Amount,
			BalanceBefore: m.BalanceBefore,
			BalanceAfter:  m.BalanceAfter,
			RefID:         m.RefID,
			CreatedAt:     m.CreatedAt,
		}
	}
	return entries, total, nil
}

// EnsureTreasury 确保平台资金账户（管理员）存在，返回其ID
// 按邮箱查找，不存在时以openingCapital创建
func EnsureTreasury(ctx context.Context, db *gorm.DB, email string, openingCapital decimal.Decimal) (uint, error) {
	repo := &userRepository{db: db}
	existing, err := repo.findByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			return 0, ledger.ErrAccountNotFound.WithDetails(map[string]any{"email": email})
		}
		return existing.ID, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return 0, err
	}

	admin, err := user.NewAdmin(user.Profile{Email: email, FullName: "Bookclub Treasury"}, openingCapital)
	if err != nil {
		return 0, err
	}
	if err := repo.Create(ctx, admin); err != nil {
		return 0, err
	}
	return admin.ID, nil
}
