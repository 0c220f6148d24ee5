package order

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/cart"
	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/internal/domain/uow"
	"github.com/xiebiao/bookclub/internal/domain/user"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/metrics"
	"github.com/xiebiao/bookclub/pkg/tracing"
	"github.com/xiebiao/bookclub/pkg/validation"
)

const tracerName = "bookclub/application/order"

// Settings 下单相关配置
type Settings struct {
	TreasuryID   uint // 平台资金账户
	CodeAttempts int  // 订单号最大尝试次数
}

// CreateOrderUseCase 把用户购物车转换为订单
type CreateOrderUseCase struct {
	tx         uow.TxManager
	users      user.Repository
	carts      cart.Service
	books      book.Repository
	orders     order.Repository
	ledger     ledger.Service
	cache      Cache
	dispatcher *Dispatcher
	validator  *validation.Validator
	settings   Settings
	codeGen    order.CodeGenerator
	log        *logger.Logger
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	tx uow.TxManager,
	users user.Repository,
	carts cart.Service,
	books book.Repository,
	orders order.Repository,
	ledgerService ledger.Service,
	cache Cache,
	dispatcher *Dispatcher,
	validator *validation.Validator,
	settings Settings,
	log *logger.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		tx:         tx,
		users:      users,
		carts:      carts,
		books:      books,
		orders:     orders,
		ledger:     ledgerService,
		cache:      cache,
		dispatcher: dispatcher,
		validator:  validator,
		settings:   settings,
		codeGen:    order.GenerateCode,
		log:        log,
	}
}

// ContactInput 联系信息，留空的字段使用用户资料
type ContactInput struct {
	Email         string
	Phone         string
	FullName      string
	RecipientName string // 为空时使用FullName
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	UserID     uint // 从JWT中提取
	Contact    ContactInput
	IsDelivery bool
	Shipping   *order.Shipping // IsDelivery为true时必填，否则必须为空
	Status     string          // 为空时为pending
}

// Execute 执行下单
//
// 在一个事务中完成：
//  1. 锁定用户购物车，购物车为空时失败
//  2. 按ID升序锁定涉及的图书（固定加锁顺序，避免并发下单互相死锁）
//  3. 逐条校验库存、生成明细快照、扣减库存
//  4. 生成订单号并写入订单
//  5. 删除已下单的购物车条目
//  6. 订单金额计入平台资金
//
// 任一步失败（包括ctx取消、超时）整个事务回滚。提交后异步发送通知。
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (resp *OrderResponse, err error) {
	defer metrics.TrackOrderInProgress()()
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, tracerName, "order.CreateOrder",
		attribute.Int64("user.id", int64(req.UserID)),
		attribute.Bool("order.is_delivery", req.IsDelivery),
	)
	defer func() {
		metrics.ObserveOrderCreation(time.Since(start), failureReason(err))
		tracing.EndSpan(span, err)
	}()

	var created *order.Order
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		o, err := uc.placeOrder(ctx, req)
		if err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		uc.log.WithContext(ctx).Warn("下单失败", "user_id", req.UserID, "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.String("order.code", created.Code))
	metrics.RecordLedgerMovement(string(ledger.KindCredit), string(ledger.ReasonOrderRevenue))
	uc.log.WithContext(ctx).Info("下单成功",
		"user_id", created.UserID, "order_id", created.ID, "order_code", created.Code,
		"total", created.Total.StringFixed(2), "items", len(created.Items))

	if err := uc.cache.Set(ctx, created); err != nil {
		uc.log.WithContext(ctx).Warn("写入订单缓存失败", "order_id", created.ID, "error", err)
	}
	uc.dispatcher.Dispatch(ctx, order.NewOrderReceived(created))

	return NewOrderResponse(created), nil
}

func (uc *CreateOrderUseCase) placeOrder(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	u, err := uc.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	items, err := uc.carts.LockByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, cart.ErrEmptyCart
	}

	if err := order.ValidateDelivery(req.IsDelivery, req.Shipping); err != nil {
		return nil, err
	}
	if req.Shipping != nil {
		if err := uc.validator.Validate(req.Shipping); err != nil {
			return nil, err
		}
	}

	contact := resolveContact(req.Contact, u.Profile)
	if err := uc.validator.Validate(contact); err != nil {
		return nil, err
	}

	status := order.StatusPending
	if req.Status != "" {
		if status, err = order.ParseStatus(req.Status); err != nil {
			return nil, err
		}
	}

	locked, err := uc.lockBooks(ctx, items)
	if err != nil {
		return nil, err
	}

	orderItems := make([]order.Item, 0, len(items))
	for _, ci := range items {
		b := locked[ci.BookID]
		if b.Stock < ci.Quantity {
			return nil, book.InsufficientStock(b, ci.Quantity)
		}

		item, err := order.NewItem(b.ID, b.Title, b.Author, b.Cover, b.SalePrice, ci.Quantity)
		if err != nil {
			return nil, err
		}
		if err := uc.books.UpdateStock(ctx, b.ID, -ci.Quantity); err != nil {
			return nil, err
		}
		b.Stock -= ci.Quantity
		orderItems = append(orderItems, item)
	}

	code, err := order.NextUniqueCode(ctx, uc.codeGen, uc.orders, uc.settings.CodeAttempts)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(code, u.ID, contact, req.IsDelivery, req.Shipping, orderItems, status)
	if err != nil {
		return nil, err
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	if err := uc.carts.DeleteAll(ctx, items); err != nil {
		return nil, err
	}

	if _, err := uc.ledger.Credit(ctx, uc.settings.TreasuryID, o.Total, ledger.ReasonOrderRevenue, fmt.Sprintf("order:%d", o.ID)); err != nil {
		return nil, err
	}
	return o, nil
}

// lockBooks 按图书ID升序加锁，下架或不存在的图书返回ErrBookNotFound
func (uc *CreateOrderUseCase) lockBooks(ctx context.Context, items []*cart.CartItem) (map[uint]*book.Book, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.BookID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	locked := make(map[uint]*book.Book, len(ids))
	for _, id := range ids {
		b, err := uc.books.LockByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !b.IsActive {
			return nil, book.ErrBookNotFound.WithDetails(map[string]any{"book_id": id})
		}
		locked[id] = b
	}
	return locked, nil
}

// resolveContact 联系信息留空的字段使用用户资料补齐
func resolveContact(in ContactInput, profile user.Profile) order.Contact {
	c := order.Contact{
		Email:         firstNonBlank(in.Email, profile.Email),
		Phone:         firstNonBlank(in.Phone, profile.Phone),
		FullName:      firstNonBlank(in.FullName, profile.FullName),
		RecipientName: strings.TrimSpace(in.RecipientName),
	}
	if c.RecipientName == "" {
		c.RecipientName = c.FullName
	}
	return c
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// failureReason 指标标签，成功时为空
func failureReason(err error) string {
	if err == nil {
		return ""
	}
	switch apperrors.KindOfErr(err) {
	case apperrors.KindValidation:
		return "validation"
	case apperrors.KindNotFound:
		return "not_found"
	case apperrors.KindConflict:
		return "conflict"
	case apperrors.KindInsufficientStock:
		return "insufficient_stock"
	default:
		return "internal"
	}
}
