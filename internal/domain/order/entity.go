package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status 订单状态
// 状态之间没有流转限制，任意状态都可以改为任意其他状态
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in progress"
	StatusDelivered  Status = "delivered"
)

// Statuses 全部合法状态
var Statuses = []Status{StatusPending, StatusInProgress, StatusDelivered}

// ParseStatus 严格匹配合法状态，其他值返回ErrInvalidStatus
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if Status(s) == st {
			return st, nil
		}
	}
	return "", ErrInvalidStatus.WithDetails(map[string]any{"status": s})
}

// Contact 下单时的联系信息快照
type Contact struct {
	Email         string `validate:"required,email" json:"email"`
	Phone         string `validate:"omitempty,max=32" json:"phone"`
	FullName      string `validate:"required,max=100" json:"full_name"`
	RecipientName string `validate:"required,max=100" json:"recipient_name"`
}

// Shipping 配送信息，仅当IsDelivery为true时存在
type Shipping struct {
	Address   string `validate:"required,max=255" json:"address"`
	City      string `validate:"required,max=100" json:"city"`
	District  string `validate:"required,max=100" json:"district"`
	Reference string `validate:"max=255" json:"reference"`
}

// Item 订单明细
// 图书信息是下单时的快照，之后修改图书不影响历史订单
type Item struct {
	BookID     uint
	BookTitle  string
	BookAuthor string
	BookPrice  decimal.Decimal // 下单时的售价
	BookCover  string
	Quantity   int
	ItemTotal  decimal.Decimal // Quantity × BookPrice
}

// NewItem 创建订单明细并计算小计
func NewItem(bookID uint, title, author, cover string, price decimal.Decimal, quantity int) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{
		BookID:     bookID,
		BookTitle:  title,
		BookAuthor: author,
		BookPrice:  price,
		BookCover:  cover,
		Quantity:   quantity,
		ItemTotal:  price.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Order 订单实体(聚合根)
// 1. Items不为空，创建后不再修改
// 2. Total = Σ ItemTotal，在构造时计算
// 3. Shipping非空当且仅当IsDelivery为true
type Order struct {
	ID         uint
	Code       string // 6位大写字母数字
	UserID     uint
	Contact    Contact
	IsDelivery bool
	Shipping   *Shipping
	Items      []Item
	Total      decimal.Decimal
	Status     Status
	CreatedAt  time.Time // 下单时间
	UpdatedAt  time.Time
}

// NewOrder 创建新订单(工厂方法)
// status为空时默认pending
func NewOrder(code string, userID uint, contact Contact, isDelivery bool, shipping *Shipping, items []Item, status Status) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if err := ValidateDelivery(isDelivery, shipping); err != nil {
		return nil, err
	}
	if status == "" {
		status = StatusPending
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		total = total.Add(item.ItemTotal)
	}

	now := time.Now()
	return &Order{
		Code:       code,
		UserID:     userID,
		Contact:    contact,
		IsDelivery: isDelivery,
		Shipping:   shipping,
		Items:      append([]Item(nil), items...),
		Total:      total,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ChangeStatus 修改状态，只校验目标状态是否合法
func (o *Order) ChangeStatus(status Status) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

// CalculateTotal 按明细重新计算总额
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ItemTotal)
	}
	return total
}

// IsOwnedBy 订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}

// ValidateDelivery 配送标记与配送信息必须成对出现
func ValidateDelivery(isDelivery bool, shipping *Shipping) error {
	switch {
	case isDelivery && shipping == nil:
		return ErrShippingRequired
	case !isDelivery && shipping != nil:
		return ErrShippingNotAllowed
	case isDelivery && strings.TrimSpace(shipping.Address) == "":
		return ErrShippingRequired
	}
	return nil
}
