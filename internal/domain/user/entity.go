package user

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role 用户角色
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Profile 所有用户共有的资料
type Profile struct {
	Email    string
	FullName string
	Phone    string
}

// AdminAccount 管理员专属字段：平台资金
type AdminAccount struct {
	Capital decimal.Decimal
}

// ClientAccount 普通用户专属字段：订阅计划
type ClientAccount struct {
	Subscription string
}

// User 用户实体
// Role决定Admin与Client中哪一个非空，两者不会同时存在
type User struct {
	ID        uint
	Profile   Profile
	Role      Role
	Admin     *AdminAccount
	Client    *ClientAccount
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewClient 创建普通用户
func NewClient(profile Profile, subscription string) *User {
	now := time.Now()
	return &User{
		Profile:   profile,
		Role:      RoleClient,
		Client:    &ClientAccount{Subscription: subscription},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewAdmin 创建管理员（初始资金不能为负）
func NewAdmin(profile Profile, capital decimal.Decimal) (*User, error) {
	if capital.IsNegative() {
		return nil, ErrNegativeCapital
	}
	now := time.Now()
	return &User{
		Profile:   profile,
		Role:      RoleAdmin,
		Admin:     &AdminAccount{Capital: capital},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin && u.Admin != nil
}
