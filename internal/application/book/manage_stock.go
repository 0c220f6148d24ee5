package book

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/uow"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/metrics"
)

// StockOp 库存操作类型
type StockOp string

const (
	StockAdd      StockOp = "add"      // 补货，按进价扣平台资金
	StockDecrease StockOp = "decrease" // 减少（盘亏、报损）
	StockSet      StockOp = "set"      // 盘点后直接设置
)

// ErrInvalidStockOp 未知的库存操作
var ErrInvalidStockOp = apperrors.New(apperrors.ErrCodeInvalidParams, "库存操作只能是add/decrease/set")

// ManageStockUseCase 库存管理用例
type ManageStockUseCase struct {
	tx          uow.TxManager
	bookService book.Service
	ledger      ledger.Service
	settings    Settings
	log         *logger.Logger
}

func NewManageStockUseCase(
	tx uow.TxManager,
	bookService book.Service,
	ledgerService ledger.Service,
	settings Settings,
	log *logger.Logger,
) *ManageStockUseCase {
	return &ManageStockUseCase{
		tx:          tx,
		bookService: bookService,
		ledger:      ledgerService,
		settings:    settings,
		log:         log,
	}
}

type ManageStockRequest struct {
	BookID   uint
	Op       StockOp
	Quantity int
}

// Execute 锁定图书后修改库存，补货时在同一事务内扣除采购成本
func (uc *ManageStockUseCase) Execute(ctx context.Context, req ManageStockRequest) (*BookResponse, error) {
	var (
		updated *book.Book
		debited bool
	)
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		switch req.Op {
		case StockAdd:
			updated, err = uc.bookService.AddStock(ctx, req.BookID, req.Quantity)
			if err != nil || req.Quantity == 0 {
				return err
			}
			_, err = uc.ledger.Debit(ctx, uc.settings.TreasuryID, updated.InventoryCost(req.Quantity),
				ledger.ReasonInventoryPurchase, fmt.Sprintf("book:%d", updated.ID))
			debited = err == nil
		case StockDecrease:
			updated, err = uc.bookService.DecreaseStock(ctx, req.BookID, req.Quantity)
		case StockSet:
			updated, err = uc.bookService.SetStock(ctx, req.BookID, req.Quantity)
		default:
			err = ErrInvalidStockOp.WithDetails(map[string]any{"op": string(req.Op)})
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if debited {
		metrics.RecordLedgerMovement(string(ledger.KindDebit), string(ledger.ReasonInventoryPurchase))
	}
	uc.log.WithContext(ctx).Info("库存已更新",
		"book_id", updated.ID, "op", string(req.Op), "quantity", req.Quantity, "stock", updated.Stock)
	return NewBookResponse(updated), nil
}
