// Package persistence 按database.driver装配仓储实现
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/cart"
	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/internal/domain/uow"
	"github.com/xiebiao/bookclub/internal/domain/user"
	"github.com/xiebiao/bookclub/internal/infrastructure/config"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookclub/pkg/logger"
)

// Repositories 一组共享同一事务管理器的仓储
type Repositories struct {
	Tx     uow.TxManager
	Books  book.Repository
	Carts  cart.Repository
	Orders order.Repository
	Users  user.Repository
	Ledger ledger.Repository

	// TreasuryID 平台资金账户（管理员用户ID）
	TreasuryID uint
}

// New 创建仓储并确保平台资金账户存在
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Repositories, func(), error) {
	capital, err := cfg.Commerce.OpeningCapital()
	if err != nil {
		return nil, nil, fmt.Errorf("解析初始资金失败: %w", err)
	}

	switch cfg.Database.Driver {
	case "memory":
		repos, err := openMemory(ctx, cfg, memory.NewStore(), capital)
		if err != nil {
			return nil, nil, err
		}
		log.Info("使用内存存储", "treasury_id", repos.TreasuryID)
		return repos, func() {}, nil

	case "mysql", "":
		db, err := mysql.NewDB(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}

		repos := &Repositories{
			Tx:     mysql.NewTxManager(db),
			Books:  mysql.NewBookRepository(db),
			Carts:  mysql.NewCartRepository(db),
			Orders: mysql.NewOrderRepository(db),
			Users:  mysql.NewUserRepository(db),
			Ledger: mysql.NewLedgerRepository(db),
		}
		repos.TreasuryID, err = resolveTreasury(ctx, cfg, repos.Ledger, func(ctx context.Context) (uint, error) {
			return mysql.EnsureTreasury(ctx, db, cfg.Commerce.TreasuryEmail, capital)
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		log.Info("平台资金账户就绪", "treasury_id", repos.TreasuryID)
		return repos, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}
}

// NewMemory 基于同一个内存存储创建全部仓储（测试使用）
func NewMemory(store *memory.Store) *Repositories {
	return &Repositories{
		Tx:     store,
		Books:  memory.NewBookRepository(store),
		Carts:  memory.NewCartRepository(store),
		Orders: memory.NewOrderRepository(store),
		Users:  memory.NewUserRepository(store),
		Ledger: memory.NewLedgerRepository(store),
	}
}

// openMemory 在给定内存存储上创建仓储，资金账户的解析方式与mysql一致
func openMemory(ctx context.Context, cfg *config.Config, store *memory.Store, capital decimal.Decimal) (*Repositories, error) {
	repos := NewMemory(store)
	id, err := resolveTreasury(ctx, cfg, repos.Ledger, func(ctx context.Context) (uint, error) {
		return memory.EnsureTreasury(ctx, store, cfg.Commerce.TreasuryEmail, capital)
	})
	if err != nil {
		return nil, err
	}
	repos.TreasuryID = id
	return repos, nil
}

// resolveTreasury 优先使用配置的账户ID，账户不存在时按邮箱创建
func resolveTreasury(ctx context.Context, cfg *config.Config, repo ledger.Repository, seed func(context.Context) (uint, error)) (uint, error) {
	if id := cfg.Commerce.TreasuryAccountID; id != 0 {
		_, err := repo.Balance(ctx, id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ledger.ErrAccountNotFound) {
			return 0, err
		}
	}
	return seed(ctx)
}
