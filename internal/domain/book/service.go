package book

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Service 图书领域服务接口
// 库存类操作需在事务中调用（LockByID依赖事务）
type Service interface {
	// Create 创建图书
	// 业务规则:
	// - 类型、语言必须合法，书名与作者不能为空，库存>=0
	// - 不能与上架图书同名同作者
	// - 进价在类型区间内随机生成，售价=进价×1.65
	Create(ctx context.Context, params CreateParams) (*Book, error)

	// Get 根据ID获取图书
	Get(ctx context.Context, id uint) (*Book, error)

	// AddStock 增加库存，qty<0返回参数错误
	AddStock(ctx context.Context, id uint, qty int) (*Book, error)

	// DecreaseStock 减少库存，qty>库存返回库存不足
	DecreaseStock(ctx context.Context, id uint, qty int) (*Book, error)

	// SetStock 设置库存，qty>=0
	SetStock(ctx context.Context, id uint, qty int) (*Book, error)

	// Deactivate 下架（软删除）
	Deactivate(ctx context.Context, id uint) (*Book, error)

	// Reactivate 重新上架，与其他上架图书同名同作者时冲突
	Reactivate(ctx context.Context, id uint) (*Book, error)

	// Update 更新信息与进价（重算售价）
	Update(ctx context.Context, id uint, params UpdateParams) (*Book, error)

	// List 分页查询上架图书
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// CreateParams 创建参数
type CreateParams struct {
	Title       string
	Author      string
	Description string
	Cover       string
	Stock       int
	Genre       string
	Language    string
}

// UpdateParams 更新参数
type UpdateParams struct {
	Title         string
	Author        string
	Description   string
	Cover         string
	Genre         string
	Language      string
	PurchasePrice decimal.Decimal
}

type service struct {
	repo   Repository
	pricer *Pricer
}

// NewService 创建图书领域服务
func NewService(repo Repository, pricer *Pricer) Service {
	return &service{repo: repo, pricer: pricer}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Book, error) {
	genre, err := ParseGenre(params.Genre)
	if err != nil {
		return nil, err
	}
	language, err := ParseLanguage(params.Language)
	if err != nil {
		return nil, err
	}

	b, err := NewBook(params.Title, params.Author, params.Description, params.Cover,
		params.Stock, genre, language, s.pricer.PurchasePrice(genre))
	if err != nil {
		return nil, err
	}

	if err := s.ensureNoActiveDuplicate(ctx, b.Title, b.Author, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) AddStock(ctx context.Context, id uint, qty int) (*Book, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	b, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStock(ctx, id, qty); err != nil {
		return nil, err
	}
	b.Stock += qty
	return b, nil
}

func (s *service) DecreaseStock(ctx context.Context, id uint, qty int) (*Book, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	b, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Stock < qty {
		return nil, InsufficientStock(b, qty)
	}
	if err := s.repo.UpdateStock(ctx, id, -qty); err != nil {
		return nil, err
	}
	b.Stock -= qty
	return b, nil
}

func (s *service) SetStock(ctx context.Context, id uint, qty int) (*Book, error) {
	if qty < 0 {
		return nil, ErrInvalidStock
	}
	b, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetStock(ctx, id, qty); err != nil {
		return nil, err
	}
	b.Stock = qty
	return b, nil
}

func (s *service) Deactivate(ctx context.Context, id uint) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return b, nil
	}
	b.IsActive = false
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Reactivate(ctx context.Context, id uint) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsActive {
		return nil, ErrAlreadyActive
	}
	if err := s.ensureNoActiveDuplicate(ctx, b.Title, b.Author, b.ID); err != nil {
		return nil, err
	}
	b.IsActive = true
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, id uint, params UpdateParams) (*Book, error) {
	genre, err := ParseGenre(params.Genre)
	if err != nil {
		return nil, err
	}
	language, err := ParseLanguage(params.Language)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.UpdateInfo(params.Title, params.Author, params.Description, params.Cover, genre, language); err != nil {
		return nil, err
	}
	if err := b.SetPurchasePrice(params.PurchasePrice); err != nil {
		return nil, err
	}

	if b.IsActive {
		if err := s.ensureNoActiveDuplicate(ctx, b.Title, b.Author, b.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.repo.List(ctx, params)
}

// ensureNoActiveDuplicate 检查是否存在同名同作者的其他上架图书
// selfID为当前图书ID（创建时为0）
func (s *service) ensureNoActiveDuplicate(ctx context.Context, title, author string, selfID uint) error {
	existing, err := s.repo.FindActiveByTitleAuthor(ctx, title, author)
	if errors.Is(err, ErrBookNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrDuplicateBook
	}
	return nil
}
