package order

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(t *testing.T, price string, qty int) Item {
	t.Helper()
	it, err := NewItem(1, "Dune", "Herbert", "", decimal.RequireFromString(price), qty)
	require.NoError(t, err)
	return it
}

func TestNewOrder_ComputesTotal(t *testing.T) {
	items := []Item{item(t, "33.00", 2), item(t, "16.50", 1)}
	o, err := NewOrder("AB12CD", 7, Contact{Email: "a@b.c"}, false, nil, items, "")
	require.NoError(t, err)

	assert.Equal(t, "82.50", o.Total.StringFixed(2))
	assert.True(t, o.Total.Equal(o.CalculateTotal()))
	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.IsOwnedBy(7))
	assert.False(t, o.IsOwnedBy(8))

	items[0].Quantity = 99
	assert.Equal(t, 2, o.Items[0].Quantity, "明细在创建时复制")
}

func TestNewOrder_Rejects(t *testing.T) {
	ship := &Shipping{Address: "1 Main St", City: "Lima", District: "Miraflores"}
	tests := []struct {
		name       string
		items      []Item
		isDelivery bool
		shipping   *Shipping
		status     Status
		wantErr    error
	}{
		{name: "no items", wantErr: ErrEmptyItems},
		{name: "delivery without shipping", items: []Item{item(t, "1", 1)}, isDelivery: true, wantErr: ErrShippingRequired},
		{name: "blank address", items: []Item{item(t, "1", 1)}, isDelivery: true, shipping: &Shipping{City: "Lima"}, wantErr: ErrShippingRequired},
		{name: "pickup with shipping", items: []Item{item(t, "1", 1)}, shipping: ship, wantErr: ErrShippingNotAllowed},
		{name: "unknown status", items: []Item{item(t, "1", 1)}, status: "shipped", wantErr: ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder("AB12CD", 1, Contact{}, tt.isDelivery, tt.shipping, tt.items, tt.status)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewItem(t *testing.T) {
	it := item(t, "24.75", 3)
	assert.Equal(t, "74.25", it.ItemTotal.StringFixed(2))

	_, err := NewItem(1, "Dune", "Herbert", "", decimal.NewFromInt(1), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "in progress", "delivered"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), st)
	}
	for _, s := range []string{"", "shipped", "Pending", "in_progress"} {
		_, err := ParseStatus(s)
		assert.ErrorIs(t, err, ErrInvalidStatus, s)
	}
}

func TestChangeStatus_AnyToAny(t *testing.T) {
	o, err := NewOrder("AB12CD", 1, Contact{}, false, nil, []Item{item(t, "1", 1)}, StatusDelivered)
	require.NoError(t, err)

	require.NoError(t, o.ChangeStatus(StatusPending))
	assert.Equal(t, StatusPending, o.Status)
	assert.ErrorIs(t, o.ChangeStatus("cancelled"), ErrInvalidStatus)
	assert.Equal(t, StatusPending, o.Status)
}

func TestGenerateCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

// codeRepo 只实现ExistsByCode
type codeRepo struct {
	Repository
	taken map[string]bool
	err   error
}

func (r codeRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	return r.taken[code], r.err
}

func sequence(codes ...string) CodeGenerator {
	i := 0
	return func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}

func TestNextUniqueCode(t *testing.T) {
	ctx := context.Background()
	repo := codeRepo{taken: map[string]bool{"AAAAAA": true, "BBBBBB": true}}

	code, err := NextUniqueCode(ctx, sequence("AAAAAA", "BBBBBB", "CCCCCC"), repo, 5)
	require.NoError(t, err)
	assert.Equal(t, "CCCCCC", code)

	_, err = NextUniqueCode(ctx, sequence("AAAAAA", "BBBBBB"), repo, 3)
	assert.ErrorIs(t, err, ErrCodeExhausted)

	_, err = NextUniqueCode(ctx, func() (string, error) { return "", errors.New("entropy") }, repo, 3)
	assert.ErrorIs(t, err, ErrCodeExhausted)

	errDown := errors.New("db down")
	_, err = NextUniqueCode(ctx, sequence("ZZZZZZ"), codeRepo{err: errDown}, 3)
	assert.ErrorIs(t, err, errDown)
}

func TestNewOrderReceived(t *testing.T) {
	o, err := NewOrder("AB12CD", 9, Contact{}, false, nil, []Item{item(t, "1", 1)}, "")
	require.NoError(t, err)

	n := NewOrderReceived(o)
	assert.Equal(t, uint(9), n.UserID)
	assert.Equal(t, KindOrderReceived, n.Kind)
	assert.Equal(t, "AB12CD", n.OrderCode)
	assert.Equal(t, o.CreatedAt, n.Timestamp)
}
