package book

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Genre 图书类型
type Genre string

const (
	GenreLiterature     Genre = "literature"
	GenreMangas         Genre = "mangas"
	GenreComics         Genre = "comics"
	GenreChildren       Genre = "children"
	GenreFantasy        Genre = "fantasy"
	GenreScienceFiction Genre = "science_fiction"
	GenreMystery        Genre = "mystery"
	GenreRomance        Genre = "romance"
	GenreHorror         Genre = "horror"
	GenreHistory        Genre = "history"
	GenreBiography      Genre = "biography"
	GenrePoetry         Genre = "poetry"
)

// Genres 全部合法类型
var Genres = []Genre{
	GenreLiterature, GenreMangas, GenreComics, GenreChildren,
	GenreFantasy, GenreScienceFiction, GenreMystery, GenreRomance,
	GenreHorror, GenreHistory, GenreBiography, GenrePoetry,
}

// ParseGenre 字符串转Genre，未知类型返回ErrInvalidGenre
func ParseGenre(s string) (Genre, error) {
	g := Genre(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Genres {
		if g == known {
			return g, nil
		}
	}
	return "", ErrInvalidGenre
}

// Language 图书语言
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageSpanish Language = "spanish"
)

// ParseLanguage 字符串转Language
func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToLower(strings.TrimSpace(s))); l {
	case LanguageEnglish, LanguageSpanish:
		return l, nil
	default:
		return "", ErrInvalidLanguage
	}
}

// Book 图书实体(聚合根)
// 1. 售价始终等于进价×1.65（保留两位小数），只能通过SetPurchasePrice修改
// 2. 库存只能通过仓储的原子更新修改（AddStock/DecreaseStock/SetStock/下单扣减）
// 3. IsActive=false表示已下架（软删除），下架图书不可加购、不可下单
type Book struct {
	ID            uint
	Title         string
	Author        string
	Description   string
	Cover         string // 封面URL
	Stock         int
	PurchasePrice decimal.Decimal // 进价
	SalePrice     decimal.Decimal // 售价
	Genre         Genre
	Language      Language
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书(工厂方法)
// 进价由Pricer按类型价格区间生成
func NewBook(title, author, description, cover string, stock int, genre Genre, language Language, purchasePrice decimal.Decimal) (*Book, error) {
	title, author = strings.TrimSpace(title), strings.TrimSpace(author)
	if title == "" || author == "" {
		return nil, ErrBlankTitleOrAuthor
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	now := time.Now()
	b := &Book{
		Title:       title,
		Author:      author,
		Description: description,
		Cover:       cover,
		Stock:       stock,
		Genre:       genre,
		Language:    language,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.SetPurchasePrice(purchasePrice); err != nil {
		return nil, err
	}
	return b, nil
}

// SetPurchasePrice 设置进价并重算售价
func (b *Book) SetPurchasePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	b.PurchasePrice = price.Round(2)
	b.SalePrice = SalePriceFor(b.PurchasePrice)
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新基本信息
func (b *Book) UpdateInfo(title, author, description, cover string, genre Genre, language Language) error {
	title, author = strings.TrimSpace(title), strings.TrimSpace(author)
	if title == "" || author == "" {
		return ErrBlankTitleOrAuthor
	}
	b.Title = title
	b.Author = author
	b.Description = description
	b.Cover = cover
	b.Genre = genre
	b.Language = language
	b.UpdatedAt = time.Now()
	return nil
}

// InventoryCost 采购qty本的成本（进价×数量）
func (b *Book) InventoryCost(qty int) decimal.Decimal {
	return b.PurchasePrice.Mul(decimal.NewFromInt(int64(qty)))
}

// SameTitleAuthor 书名+作者是否相同（忽略大小写与首尾空格）
func (b *Book) SameTitleAuthor(title, author string) bool {
	return NormalizeKey(b.Title) == NormalizeKey(title) && NormalizeKey(b.Author) == NormalizeKey(author)
}

// NormalizeKey 书名/作者的比较键
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
