package book

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/uow"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/metrics"
	"github.com/xiebiao/bookclub/pkg/validation"
)

// PublishBookUseCase 图书上架用例
// 初始库存视为一次采购：进价×库存从平台资金扣除，扣款失败时图书不会创建
type PublishBookUseCase struct {
	tx          uow.TxManager
	bookService book.Service
	ledger      ledger.Service
	validator   *validation.Validator
	settings    Settings
	log         *logger.Logger
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(
	tx uow.TxManager,
	bookService book.Service,
	ledgerService ledger.Service,
	validator *validation.Validator,
	settings Settings,
	log *logger.Logger,
) *PublishBookUseCase {
	return &PublishBookUseCase{
		tx:          tx,
		bookService: bookService,
		ledger:      ledgerService,
		validator:   validator,
		settings:    settings,
		log:         log,
	}
}

// PublishBookRequest 上架请求DTO
type PublishBookRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Author      string `json:"author" validate:"required,max=100"`
	Description string `json:"description" validate:"max=5000"`
	Cover       string `json:"cover" validate:"omitempty,url"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Genre       string `json:"genre" validate:"required"`
	Language    string `json:"language" validate:"required"`
}

func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookResponse, error) {
	if err := uc.validator.Validate(req); err != nil {
		return nil, err
	}

	var created *book.Book
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookService.Create(ctx, book.CreateParams{
			Title:       req.Title,
			Author:      req.Author,
			Description: req.Description,
			Cover:       req.Cover,
			Stock:       req.Stock,
			Genre:       req.Genre,
			Language:    req.Language,
		})
		if err != nil {
			return err
		}

		if b.Stock > 0 {
			_, err = uc.ledger.Debit(ctx, uc.settings.TreasuryID, b.InventoryCost(b.Stock),
				ledger.ReasonInventoryPurchase, fmt.Sprintf("book:%d", b.ID))
			if err != nil {
				return err
			}
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created.Stock > 0 {
		metrics.RecordLedgerMovement(string(ledger.KindDebit), string(ledger.ReasonInventoryPurchase))
	}
	uc.log.WithContext(ctx).Info("图书已上架",
		"book_id", created.ID, "title", created.Title, "stock", created.Stock,
		"purchase_price", created.PurchasePrice.StringFixed(2))
	return NewBookResponse(created), nil
}
