package user

import (
	"context"

	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.ErrUserNotFound

	// ErrEmailDuplicate 邮箱已被使用
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "邮箱已被注册")

	ErrNegativeCapital = apperrors.New(apperrors.ErrCodeInvalidParams, "资金不能为负数")
)

// Repository 用户仓储接口
// 注册、登录由用户服务负责，本服务只读取用户资料
type Repository interface {
	// Create 创建用户（种子数据与测试使用），邮箱重复返回ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在时返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)
}
