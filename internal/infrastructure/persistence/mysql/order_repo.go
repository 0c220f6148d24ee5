package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookclub/internal/domain/order"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 订单与明细一起保存，查询时Preload明细
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单，GORM随订单一起插入Items
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return order.ErrDuplicateCode.WithErr(err)
		}
		return apperrors.Wrap(err, "创建订单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	if err := r.withItems(ctx).First(&model, id).Error; err != nil {
		return nil, notFoundOr(err, order.ErrOrderNotFound, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

func (r *orderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	var model OrderModel
	if err := r.withItems(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, notFoundOr(err, order.ErrOrderNotFound, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

func (r *orderRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&OrderModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询订单号失败")
	}
	return count > 0, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	result := getDB(ctx, r.db).Model(&OrderModel{}).Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单状态失败")
	}
	if result.RowsAffected == 0 {
		// 状态未变化时MySQL同样返回0行
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	var (
		models []OrderModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&OrderModel{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(pageSize).Offset(pageOffset(page, pageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, total, nil
}

// withItems 预加载明细并按下单顺序排列
func (r *orderRepository) withItems(ctx context.Context) *gorm.DB {
	return getDB(ctx, r.db).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func toOrderModel(o *order.Order) *OrderModel {
	m := &OrderModel{
		ID:            o.ID,
		Code:          o.Code,
		UserID:        o.UserID,
		UserEmail:     o.Contact.Email,
		UserPhone:     o.Contact.Phone,
		UserFullName:  o.Contact.FullName,
		RecipientName: o.Contact.RecipientName,
		IsDelivery:    o.IsDelivery,
		Total:         o.Total,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Items:         make([]OrderItemModel, len(o.Items)),
	}
	if o.Shipping != nil {
		m.ShippingAddress = strPtr(o.Shipping.Address)
		m.ShippingCity = strPtr(o.Shipping.City)
		m.ShippingDistrict = strPtr(o.Shipping.District)
		m.ShippingReference = strPtr(o.Shipping.Reference)
	}
	for i, item := range o.Items {
		m.Items[i] = OrderItemModel{
			Position:   i,
			BookID:     item.BookID,
			BookTitle:  item.BookTitle,
			BookAuthor: item.BookAuthor,
			BookPrice:  item.BookPrice,
			BookCover:  item.BookCover,
			Quantity:   item.Quantity,
			ItemTotal:  item.ItemTotal,
		}
	}
	return m
}

func toOrderEntity(m *OrderModel) *order.Order {
	o := &order.Order{
		ID:     m.ID,
		Code:   m.Code,
		UserID: m.UserID,
		Contact: order.Contact{
			Email:         m.UserEmail,
			Phone:         m.UserPhone,
			FullName:      m.UserFullName,
			RecipientName: m.RecipientName,
		},
		IsDelivery: m.IsDelivery,
		Total:      m.Total,
		Status:     order.Status(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		Items:      make([]order.Item, len(m.Items)),
	}
	if m.IsDelivery {
		o.Shipping = &order.Shipping{
			Address:   strVal(m.ShippingAddress),
			City:      strVal(m.ShippingCity),
			District:  strVal(m.ShippingDistrict),
			Reference: strVal(m.ShippingReference),
		}
	}
	for i, item := range m.Items {
		o.Items[i] = order.Item{
			BookID:     item.BookID,
			BookTitle:  item.BookTitle,
			BookAuthor: item.BookAuthor,
			BookPrice:  item.BookPrice,
			BookCover:  item.BookCover,
			Quantity:   item.Quantity,
			ItemTotal:  item.ItemTotal,
		}
	}
	return o
}
