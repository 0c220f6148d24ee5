package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource float64

func (s fixedSource) Float64() float64 { return float64(s) }

func TestBandFor(t *testing.T) {
	tests := []struct {
		genre    Genre
		min, max int64
	}{
		{GenreLiterature, 25, 35},
		{GenreMangas, 15, 35},
		{GenreComics, 15, 35},
		{GenreChildren, 15, 20},
		{GenreFantasy, 10, 20},
		{GenrePoetry, 10, 20},
	}
	for _, tt := range tests {
		t.Run(string(tt.genre), func(t *testing.T) {
			b := BandFor(tt.genre)
			assert.True(t, b.Min.Equal(decimal.NewFromInt(tt.min)))
			assert.True(t, b.Max.Equal(decimal.NewFromInt(tt.max)))
		})
	}
}

func TestPricer_StaysWithinBand(t *testing.T) {
	pricer := NewPricer(NewRandomSource(42))
	for _, g := range Genres {
		band := BandFor(g)
		for i := 0; i < 200; i++ {
			price := pricer.PurchasePrice(g)
			require.Truef(t, band.Contains(price), "%s: %s 不在区间内", g, price)
			require.True(t, price.Equal(price.Round(2)), "进价保留两位小数")
		}
	}
}

func TestPricer_SeededSourceIsReproducible(t *testing.T) {
	a := NewPricer(NewRandomSource(7))
	b := NewPricer(NewRandomSource(7))
	for i := 0; i < 20; i++ {
		assert.True(t, a.PurchasePrice(GenreMangas).Equal(b.PurchasePrice(GenreMangas)))
	}
}

func TestPricer_Endpoints(t *testing.T) {
	assert.Equal(t, "25.00", NewPricer(fixedSource(0)).PurchasePrice(GenreLiterature).StringFixed(2))
	assert.Equal(t, "15.00", NewPricer(fixedSource(0.5)).PurchasePrice(GenreFantasy).StringFixed(2))
}

func TestSalePriceFor(t *testing.T) {
	tests := []struct {
		purchase string
		want     string
	}{
		{"20", "33.00"},
		{"10", "16.50"},
		{"12.34", "20.36"},
		{"35", "57.75"},
	}
	for _, tt := range tests {
		t.Run(tt.purchase, func(t *testing.T) {
			got := SalePriceFor(decimal.RequireFromString(tt.purchase))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestNewBook(t *testing.T) {
	b, err := NewBook("  Dune ", " Frank Herbert", "", "", 3, GenreFantasy, LanguageEnglish, decimal.RequireFromString("20"))
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Frank Herbert", b.Author)
	assert.True(t, b.IsActive)
	assert.Equal(t, "33.00", b.SalePrice.StringFixed(2))
	assert.Equal(t, "60.00", b.InventoryCost(3).StringFixed(2))

	_, err = NewBook(" ", "Herbert", "", "", 0, GenreFantasy, LanguageEnglish, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrBlankTitleOrAuthor)
	_, err = NewBook("Dune", "Herbert", "", "", -1, GenreFantasy, LanguageEnglish, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrInvalidStock)
	_, err = NewBook("Dune", "Herbert", "", "", 0, GenreFantasy, LanguageEnglish, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestSetPurchasePrice_KeepsMarkup(t *testing.T) {
	b, err := NewBook("Dune", "Herbert", "", "", 0, GenreFantasy, LanguageEnglish, decimal.NewFromInt(10))
	require.NoError(t, err)

	require.NoError(t, b.SetPurchasePrice(decimal.RequireFromString("18.5")))
	assert.Equal(t, "18.50", b.PurchasePrice.StringFixed(2))
	assert.Equal(t, "30.53", b.SalePrice.StringFixed(2))

	assert.ErrorIs(t, b.SetPurchasePrice(decimal.NewFromInt(-1)), ErrInvalidPrice)
	assert.Equal(t, "18.50", b.PurchasePrice.StringFixed(2))
}

func TestParseGenreAndLanguage(t *testing.T) {
	g, err := ParseGenre(" Science_Fiction ")
	require.NoError(t, err)
	assert.Equal(t, GenreScienceFiction, g)

	_, err = ParseGenre("cooking")
	assert.ErrorIs(t, err, ErrInvalidGenre)

	l, err := ParseLanguage("SPANISH")
	require.NoError(t, err)
	assert.Equal(t, LanguageSpanish, l)

	_, err = ParseLanguage("latin")
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}

func TestSameTitleAuthor(t *testing.T) {
	b := &Book{Title: "Dune", Author: "Frank Herbert"}
	assert.True(t, b.SameTitleAuthor(" DUNE", "frank herbert "))
	assert.False(t, b.SameTitleAuthor("Dune Messiah", "Frank Herbert"))
}
