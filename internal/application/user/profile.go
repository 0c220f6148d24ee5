package user

import (
	"context"

	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/user"
)

// ProfileResponse 当前用户资料
// 下单时未填写的联系信息取自这里
type ProfileResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	Subscription string `json:"subscription,omitempty"` // 仅普通用户
	Capital      string `json:"capital,omitempty"`      // 仅管理员，取自资金账户
}

// GetProfileUseCase 查询当前用户资料
type GetProfileUseCase struct {
	users  user.Repository
	ledger ledger.Service
}

func NewGetProfileUseCase(users user.Repository, ledgerService ledger.Service) *GetProfileUseCase {
	return &GetProfileUseCase{users: users, ledger: ledgerService}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{
		ID:       u.ID,
		Email:    u.Profile.Email,
		FullName: u.Profile.FullName,
		Phone:    u.Profile.Phone,
		Role:     string(u.Role),
	}
	switch {
	case u.IsAdmin():
		balance, err := uc.ledger.Balance(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		resp.Capital = balance.StringFixed(2)
	case u.Client != nil:
		resp.Subscription = u.Client.Subscription
	}
	return resp, nil
}
