package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookclub/internal/infrastructure/config"
	"github.com/xiebiao/bookclub/pkg/logger"
)

// NewDB 创建数据库连接
// 1. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 2. debug模式打印SQL
// 3. 自动迁移表结构
func NewDB(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info("数据库连接成功", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	// 生产环境应使用版本化的迁移脚本
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&LedgerEntryModel{},
	)
}

// UserModel GORM用户模型
// 角色专属字段平铺在同一张表：Capital仅管理员使用，Subscription仅普通用户使用
type UserModel struct {
	ID           uint            `gorm:"primaryKey"`
	Email        string          `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	FullName     string          `gorm:"size:100;not null;comment:姓名"`
	Phone        string          `gorm:"size:32;comment:电话"`
	Role         string          `gorm:"size:16;not null;index;comment:角色(client/admin)"`
	Capital      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0;comment:平台资金(管理员)"`
	Subscription string          `gorm:"size:32;comment:订阅计划(普通用户)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 价格使用decimal(12,2)，书名+作者建普通索引（唯一性只约束上架图书，由领域服务校验）
type BookModel struct {
	ID            uint            `gorm:"primaryKey"`
	Title         string          `gorm:"index:idx_title_author;size:200;not null;comment:书名"`
	Author        string          `gorm:"index:idx_title_author;size:100;not null;comment:作者"`
	Description   string          `gorm:"type:text;comment:图书描述"`
	Cover         string          `gorm:"size:500;comment:封面URL"`
	Stock         int             `gorm:"not null;default:0;comment:库存"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:进价"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(12,2);not null;index;comment:售价"`
	Genre         string          `gorm:"size:32;not null;index;comment:类型"`
	Language      string          `gorm:"size:16;not null;comment:语言"`
	IsActive      bool            `gorm:"not null;default:true;index;comment:是否上架"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time
}

func (BookModel) TableName() string {
	return "books"
}

// CartItemModel GORM购物车条目模型
type CartItemModel struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:uk_user_book;not null;comment:用户ID"`
	BookID    uint `gorm:"uniqueIndex:uk_user_book;not null;comment:图书ID"`
	Quantity  int  `gorm:"not null;comment:数量"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
// 联系信息与配送信息是下单时的快照
type OrderModel struct {
	ID                uint             `gorm:"primaryKey"`
	Code              string           `gorm:"uniqueIndex;size:6;not null;comment:订单号"`
	UserID            uint             `gorm:"index;not null;comment:用户ID"`
	UserEmail         string           `gorm:"size:100;not null"`
	UserPhone         string           `gorm:"size:32"`
	UserFullName      string           `gorm:"size:100;not null"`
	RecipientName     string           `gorm:"size:100;not null"`
	IsDelivery        bool             `gorm:"not null"`
	ShippingAddress   *string          `gorm:"size:255"`
	ShippingCity      *string          `gorm:"size:100"`
	ShippingDistrict  *string          `gorm:"size:100"`
	ShippingReference *string          `gorm:"size:255"`
	Total             decimal.Decimal  `gorm:"type:decimal(12,2);not null;comment:订单总额"`
	Status            string           `gorm:"size:16;not null;index;comment:状态(pending/in progress/delivered)"`
	Items             []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt         time.Time        `gorm:"index;comment:下单时间"`
	UpdatedAt         time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型（图书信息快照）
type OrderItemModel struct {
	ID         uint            `gorm:"primaryKey"`
	OrderID    uint            `gorm:"index;not null"`
	Position   int             `gorm:"not null;comment:明细顺序"`
	BookID     uint            `gorm:"index;not null"`
	BookTitle  string          `gorm:"size:200;not null"`
	BookAuthor string          `gorm:"size:100;not null"`
	BookPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:下单时售价"`
	BookCover  string          `gorm:"size:500"`
	Quantity   int             `gorm:"not null"`
	ItemTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// LedgerEntryModel GORM资金流水模型（只追加）
type LedgerEntryModel struct {
	ID            string          `gorm:"primaryKey;size:36"`
	AccountID     uint            `gorm:"index:idx_account_time;not null"`
	Kind          string          `gorm:"size:8;not null;comment:CREDIT/DEBIT"`
	Reason        string          `gorm:"size:32;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	RefID         string          `gorm:"size:64;index"`
	CreatedAt     time.Time       `gorm:"index:idx_account_time"`
}

func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}
