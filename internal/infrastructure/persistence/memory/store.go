// Package memory 内存存储引擎
//
// 用于单元测试与本地演示（database.driver=memory）。
// 事务持有全局互斥锁串行执行，开始时保存快照，fn失败、panic或ctx结束时恢复快照。
// 仓储返回实体副本，调用方修改返回值不会影响存储内容。
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/cart"
	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/internal/domain/user"
)

type txKey struct{}

// state 全部数据，事务回滚时整体替换
type state struct {
	books   map[uint]*book.Book
	carts   map[uint]*cart.CartItem
	orders  map[uint]*order.Order
	users   map[uint]*user.User
	entries []*ledger.Entry

	nextBookID  uint
	nextCartID  uint
	nextOrderID uint
	nextUserID  uint
}

func newState() *state {
	return &state{
		books:  make(map[uint]*book.Book),
		carts:  make(map[uint]*cart.CartItem),
		orders: make(map[uint]*order.Order),
		users:  make(map[uint]*user.User),
	}
}

func (s *state) clone() *state {
	cp := *s
	cp.books = cloneMap(s.books, copyBook)
	cp.carts = cloneMap(s.carts, copyCartItem)
	cp.orders = cloneMap(s.orders, copyOrder)
	cp.users = cloneMap(s.users, copyUser)
	cp.entries = slices.Clone(s.entries)
	return &cp
}

// Store 内存存储
type Store struct {
	mu   chan struct{} // 容量1的信号量，可被ctx取消
	data *state
}

// NewStore 创建空存储
func NewStore() *Store {
	return &Store{
		mu:   make(chan struct{}, 1),
		data: newState(),
	}
}

// Transaction 实现uow.TxManager
// 已在本存储的事务中时直接加入外层事务
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.unlock()

	snapshot := s.data.clone()
	defer func() {
		if r := recover(); r != nil {
			s.data = snapshot
			panic(r)
		}
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

func (s *Store) lock(ctx context.Context) error {
	select {
	case s.mu <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlock() {
	<-s.mu
}

// read 在事务内直接访问，否则加锁访问
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn(s.data)
	}
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.unlock()
	return fn(s.data)
}

// write 非事务写操作失败时同样恢复快照，保证单次调用的原子性
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(s.data)
	}
	return s.Transaction(ctx, func(ctx context.Context) error {
		return fn(s.data)
	})
}

// =========================================
// 副本
// =========================================

func cloneMap[T any](m map[uint]*T, copyFn func(*T) *T) map[uint]*T {
	out := make(map[uint]*T, len(m))
	for k, v := range m {
		out[k] = copyFn(v)
	}
	return out
}

func copyBook(b *book.Book) *book.Book {
	cp := *b
	return &cp
}

func copyCartItem(i *cart.CartItem) *cart.CartItem {
	cp := *i
	return &cp
}

func copyOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = slices.Clone(o.Items)
	if o.Shipping != nil {
		s := *o.Shipping
		cp.Shipping = &s
	}
	return &cp
}

func copyUser(u *user.User) *user.User {
	cp := *u
	if u.Admin != nil {
		a := *u.Admin
		cp.Admin = &a
	}
	if u.Client != nil {
		c := *u.Client
		cp.Client = &c
	}
	return &cp
}

func copyEntry(e *ledger.Entry) *ledger.Entry {
	cp := *e
	return &cp
}

// sortedIDs 按ID升序遍历，结果稳定
func sortedIDs[T any](m map[uint]*T) []uint {
	return slices.Sorted(maps.Keys(m))
}

// paginate 计算分页区间
func paginate(total, page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = total
	}
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	return start, end
}

func desc[T cmp.Ordered](a, b T) int {
	return cmp.Compare(b, a)
}
