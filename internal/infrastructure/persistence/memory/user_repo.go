package memory

import (
	"context"
	"strings"

	"github.com/xiebiao/bookclub/internal/domain/user"
)

type userRepository struct {
	store *Store
}

// NewUserRepository 创建用户仓储
func NewUserRepository(store *Store) user.Repository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return r.store.write(ctx, func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Profile.Email, u.Profile.Email) {
				return user.ErrEmailDuplicate
			}
		}
		st.nextUserID++
		u.ID = st.nextUserID
		st.users[u.ID] = copyUser(u)
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var found *user.User
	err := r.store.read(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return user.ErrUserNotFound
		}
		found = copyUser(u)
		return nil
	})
	return found, err
}
