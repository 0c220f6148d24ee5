//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishBook_DebitsTreasury(t *testing.T) {
	e := Setup(t)
	before := decimal.RequireFromString(e.Treasury(t).Balance)

	b := e.PublishBook(t, UniqueTitle("Odes"), 2)
	assert.True(t, b.IsActive)

	purchase := decimal.RequireFromString(b.PurchasePrice)
	sale := decimal.RequireFromString(b.SalePrice)
	assert.True(t, purchase.GreaterThanOrEqual(decimal.NewFromInt(10)) && purchase.LessThanOrEqual(decimal.NewFromInt(20)),
		"诗歌类进价应在10-20之间: %s", purchase)
	assert.Equal(t, purchase.Mul(decimal.RequireFromString("1.65")).Round(2).StringFixed(2), sale.StringFixed(2))

	after := decimal.RequireFromString(e.Treasury(t).Balance)
	assert.Equal(t, before.Sub(purchase.Mul(decimal.NewFromInt(2))).StringFixed(2), after.StringFixed(2))
}

func TestPublishBook_Rejections(t *testing.T) {
	e := Setup(t)
	_, readerToken := e.NewReader(t, "book_reader")
	title := UniqueTitle("Duplicate")
	e.PublishBook(t, title, 0)

	tests := []struct {
		name   string
		token  string
		body   map[string]any
		status int
	}{
		{"reader cannot publish", readerToken,
			map[string]any{"title": UniqueTitle("X"), "author": "A", "genre": "poetry", "language": "english"}, http.StatusForbidden},
		{"unknown genre", e.AdminToken,
			map[string]any{"title": UniqueTitle("X"), "author": "A", "genre": "cooking", "language": "english"}, http.StatusBadRequest},
		{"duplicate title and author", e.AdminToken,
			map[string]any{"title": title, "author": "integration author", "genre": "poetry", "language": "english"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Do(t, http.MethodPost, BaseURL+"/books", tt.body, tt.token)
			assert.Equal(t, tt.status, resp.Status, resp.Message)
		})
	}
}

func TestDeactivatedBookIsHidden(t *testing.T) {
	e := Setup(t)
	b := e.PublishBook(t, UniqueTitle("Hidden"), 0)

	resp := Do(t, http.MethodPost, fmt.Sprintf("%s/books/%d/deactivate", BaseURL, b.ID), nil, e.AdminToken)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)

	resp = Do(t, http.MethodGet, fmt.Sprintf("%s/books/%d", BaseURL, b.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = Do(t, http.MethodGet, fmt.Sprintf("%s/books/%d", BaseURL, b.ID), nil, e.AdminToken)
	require.Equal(t, http.StatusOK, resp.Status)
	var seen BookData
	require.NoError(t, json.Unmarshal(resp.Data, &seen))
	assert.False(t, seen.IsActive)
}

func TestManageStock(t *testing.T) {
	e := Setup(t)
	b := e.PublishBook(t, UniqueTitle("Stock"), 1)
	url := fmt.Sprintf("%s/books/%d/stock", BaseURL, b.ID)

	resp := Do(t, http.MethodPost, url, map[string]any{"op": "add", "quantity": 2}, e.AdminToken)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)
	var updated BookData
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, 3, updated.Stock)

	resp = Do(t, http.MethodPost, url, map[string]any{"op": "decrease", "quantity": 5}, e.AdminToken)
	assert.Equal(t, http.StatusConflict, resp.Status)

	resp = Do(t, http.MethodPost, url, map[string]any{"op": "set", "quantity": 0}, e.AdminToken)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)
}
