package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind 资金变动方向
type Kind string

const (
	KindCredit Kind = "CREDIT" // 入账
	KindDebit  Kind = "DEBIT"  // 出账
)

// Reason 资金变动原因
type Reason string

const (
	ReasonOrderRevenue      Reason = "ORDER_REVENUE"      // 订单收入
	ReasonInventoryPurchase Reason = "INVENTORY_PURCHASE" // 采购入库
)

// Entry 资金流水（只追加，不修改）
type Entry struct {
	ID            string
	AccountID     uint // 管理员用户ID
	Kind          Kind
	Reason        Reason
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	RefID         string // 关联业务ID（订单ID、图书ID）
	CreatedAt     time.Time
}

// NewEntry 创建流水
func NewEntry(accountID uint, kind Kind, reason Reason, amount, before decimal.Decimal, refID string) *Entry {
	after := before.Add(amount)
	if kind == KindDebit {
		after = before.Sub(amount)
	}
	return &Entry{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		Kind:          kind,
		Reason:        reason,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		RefID:         refID,
		CreatedAt:     time.Now(),
	}
}

// Delta 对余额的带符号影响
func (e *Entry) Delta() decimal.Decimal {
	if e.Kind == KindDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
