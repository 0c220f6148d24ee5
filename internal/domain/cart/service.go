package cart

import (
	"context"
	"errors"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/uow"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// Service 购物车领域服务
type Service interface {
	// AddOrMergeItem 加购
	// 图书必须存在且上架；已有同一本书的条目时合并数量，合并后不能超过MaxItemQuantity。
	// 查找与合并在同一事务中并锁定已有条目，并发首次加购撞上唯一索引时重试一次走合并
	AddOrMergeItem(ctx context.Context, userID, bookID uint, quantity int) (*CartItem, error)

	// SetQuantity 修改数量，quantity为0时删除条目并返回nil
	SetQuantity(ctx context.Context, itemID, userID uint, quantity int) (*CartItem, error)

	// RemoveItem 删除条目
	RemoveItem(ctx context.Context, itemID, userID uint) error

	// ListByUser 用户的全部条目
	ListByUser(ctx context.Context, userID uint) ([]*CartItem, error)

	// LockByUser 锁定并返回用户的全部条目，必须在事务中调用（下单）
	LockByUser(ctx context.Context, userID uint) ([]*CartItem, error)

	// DeleteAll 删除给定条目（下单成功后清空购物车）
	DeleteAll(ctx context.Context, items []*CartItem) error
}

type service struct {
	repo  Repository
	books book.Repository
	tx    uow.TxManager
}

// NewService 创建购物车领域服务
func NewService(repo Repository, books book.Repository, tx uow.TxManager) Service {
	return &service{repo: repo, books: books, tx: tx}
}

func (s *service) AddOrMergeItem(ctx context.Context, userID, bookID uint, quantity int) (*CartItem, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, book.ErrBookNotFound
	}

	var item *CartItem
	for attempt := 0; attempt < 2; attempt++ {
		err = s.tx.Transaction(ctx, func(ctx context.Context) error {
			var err error
			item, err = s.addOrMerge(ctx, userID, bookID, quantity)
			return err
		})
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) addOrMerge(ctx context.Context, userID, bookID uint, quantity int) (*CartItem, error) {
	existing, err := s.repo.LockByUserAndBook(ctx, userID, bookID)
	switch {
	case err == nil:
		if err := existing.Merge(quantity); err != nil {
			return nil, err
		}
		if err := s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, ErrCartItemNotFound):
	default:
		return nil, err
	}

	item, err := NewCartItem(userID, bookID, quantity)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) SetQuantity(ctx context.Context, itemID, userID uint, quantity int) (*CartItem, error) {
	item, err := s.ownedItem(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		return nil, s.repo.Delete(ctx, item.ID)
	}

	if err := item.SetQuantity(quantity); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateQuantity(ctx, item.ID, item.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) RemoveItem(ctx context.Context, itemID, userID uint) error {
	item, err := s.ownedItem(ctx, itemID, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, item.ID)
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]*CartItem, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) LockByUser(ctx context.Context, userID uint) ([]*CartItem, error) {
	return s.repo.LockByUser(ctx, userID)
}

func (s *service) DeleteAll(ctx context.Context, items []*CartItem) error {
	if len(items) == 0 {
		return nil
	}
	return s.repo.DeleteByIDs(ctx, IDs(items))
}

// ownedItem 查询条目并校验归属，他人的条目按不存在处理
func (s *service) ownedItem(ctx context.Context, itemID, userID uint) (*CartItem, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsOwnedBy(userID) {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}
