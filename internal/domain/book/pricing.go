package book

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// SaleMarkup 售价=进价×1.65
var SaleMarkup = decimal.RequireFromString("1.65")

// SalePriceFor 按进价计算售价（四舍五入到分）
func SalePriceFor(purchase decimal.Decimal) decimal.Decimal {
	return purchase.Mul(SaleMarkup).Round(2)
}

// PriceBand 进价区间（闭区间）
type PriceBand struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func band(min, max int64) PriceBand {
	return PriceBand{Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

var (
	defaultBand = band(10, 20)
	genreBands  = map[Genre]PriceBand{
		GenreLiterature: band(25, 35),
		GenreMangas:     band(15, 35),
		GenreComics:     band(15, 35),
		GenreChildren:   band(15, 20),
	}
)

// BandFor 类型对应的进价区间，未单独配置的类型为10-20
func BandFor(g Genre) PriceBand {
	if b, ok := genreBands[g]; ok {
		return b
	}
	return defaultBand
}

// Contains 价格是否落在区间内
func (b PriceBand) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(b.Min) && price.LessThanOrEqual(b.Max)
}

// RandomSource 随机数来源，返回[0,1)
// 测试中注入固定种子的实现，保证进价可复现
type RandomSource interface {
	Float64() float64
}

// lockedRand 并发安全的PCG随机源
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSource 以固定种子创建随机源
func NewRandomSource(seed uint64) RandomSource {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeededSource 以当前时间为种子创建随机源
func NewTimeSeededSource() RandomSource {
	return NewRandomSource(uint64(time.Now().UnixNano()))
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Pricer 进价生成器
type Pricer struct {
	src RandomSource
}

// NewPricer 创建进价生成器
func NewPricer(src RandomSource) *Pricer {
	return &Pricer{src: src}
}

// PurchasePrice 在类型区间内随机生成进价（保留两位小数）
func (p *Pricer) PurchasePrice(g Genre) decimal.Decimal {
	b := BandFor(g)
	span := b.Max.Sub(b.Min)
	return b.Min.Add(span.Mul(decimal.NewFromFloat(p.src.Float64()))).Round(2)
}
