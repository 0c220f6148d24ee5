package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/bookclub/internal/domain/user"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, notFoundOr(err, user.ErrUserNotFound, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// findByEmail 种子数据使用
func (r *userRepository) findByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		return nil, notFoundOr(err, user.ErrUserNotFound, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func toUserModel(u *user.User) *UserModel {
	m := &UserModel{
		ID:        u.ID,
		Email:     u.Profile.Email,
		FullName:  u.Profile.FullName,
		Phone:     u.Profile.Phone,
		Role:      string(u.Role),
		Capital:   decimal.Zero,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Admin != nil {
		m.Capital = u.Admin.Capital
	}
	if u.Client != nil {
		m.Subscription = u.Client.Subscription
	}
	return m
}

func toUserEntity(m *UserModel) *user.User {
	u := &user.User{
		ID: m.ID,
		Profile: user.Profile{
			Email:    m.Email,
			FullName: m.FullName,
			Phone:    m.Phone,
		},
		Role:      user.Role(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	switch u.Role {
	case user.RoleAdmin:
		u.Admin = &user.AdminAccount{Capital: m.Capital}
	default:
		u.Client = &user.ClientAccount{Subscription: m.Subscription}
	}
	return u
}
