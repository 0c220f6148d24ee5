package memory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/user"
)

// EnsureTreasury 按邮箱查找平台资金账户，不存在时创建管理员
func EnsureTreasury(ctx context.Context, store *Store, email string, openingCapital decimal.Decimal) (uint, error) {
	var id uint
	err := store.write(ctx, func(st *state) error {
		for _, uid := range sortedIDs(st.users) {
			u := st.users[uid]
			if !strings.EqualFold(u.Profile.Email, email) {
				continue
			}
			if !u.IsAdmin() {
				return ledger.ErrAccountNotFound.WithDetails(map[string]any{"email": email})
			}
			id = u.ID
			return nil
		}

		admin, err := user.NewAdmin(user.Profile{Email: email, FullName: "Bookclub Treasury"}, openingCapital)
		if err != nil {
			return err
		}
		st.nextUserID++
		admin.ID = st.nextUserID
		st.users[admin.ID] = admin
		id = admin.ID
		return nil
	})
	return id, err
}
