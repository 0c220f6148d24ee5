package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesCopies(t *testing.T) {
	detailed := ErrInsufficientStock.WithDetails(map[string]any{"book_id": uint(7)})

	assert.True(t, errors.Is(detailed, ErrInsufficientStock))
	assert.False(t, errors.Is(detailed, ErrBookNotFound))
	assert.Nil(t, ErrInsufficientStock.Details, "预定义错误不应被修改")
	assert.Equal(t, uint(7), detailed.Details["book_id"])

	wrapped := fmt.Errorf("checkout: %w", detailed)
	assert.True(t, errors.Is(wrapped, ErrInsufficientStock))
}

func TestAppError_WithDetailsMerges(t *testing.T) {
	first := ErrInvalidParams.WithDetails(map[string]any{"a": 1})
	second := first.WithDetails(map[string]any{"b": 2})

	assert.Len(t, first.Details, 1)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, second.Details)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		code   int
		kind   Kind
		status int
	}{
		{ErrCodeInvalidParams, KindValidation, http.StatusBadRequest},
		{ErrCodeEmptyCart, KindValidation, http.StatusBadRequest},
		{ErrCodeInsufficientCapital, KindValidation, http.StatusBadRequest},
		{ErrCodeBookNotFound, KindNotFound, http.StatusNotFound},
		{ErrCodeCartItemNotFound, KindNotFound, http.StatusNotFound},
		{ErrCodeDuplicateEntry, KindConflict, http.StatusConflict},
		{ErrCodeInsufficientStock, KindInsufficientStock, http.StatusConflict},
		{ErrCodeInvalidToken, KindUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, KindForbidden, http.StatusForbidden},
		{ErrCodeTooManyRequests, KindTooManyRequests, http.StatusTooManyRequests},
		{ErrCodeDatabaseError, KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			e := New(tt.code, "x")
			assert.Equal(t, tt.kind, e.Kind())
			assert.Equal(t, tt.status, e.HTTPStatus())
		})
	}
}

func TestGetAppError(t *testing.T) {
	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.True(t, IsRetryable(appErr))
	})

	t.Run("context超时转换为超时错误", func(t *testing.T) {
		appErr := GetAppError(fmt.Errorf("tx: %w", context.DeadlineExceeded))
		require.True(t, errors.Is(appErr, ErrTimeout))
		assert.True(t, IsRetryable(appErr))
	})

	t.Run("业务错误不可重试", func(t *testing.T) {
		assert.False(t, IsRetryable(ErrInsufficientStock))
		assert.False(t, IsRetryable(nil))
	})
}
