package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 重复初始化不会重复注册（promauto重复注册会panic）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	require.NotNil(t, HTTPRequestsTotal)
	require.NotNil(t, OrdersCreatedTotal)
	require.NotNil(t, LedgerMovementsTotal)
}

func TestObserveOrderCreation(t *testing.T) {
	InitMetrics()

	createdBefore := testutil.ToFloat64(OrdersCreatedTotal)
	stockBefore := testutil.ToFloat64(OrdersFailedTotal.WithLabelValues("insufficient_stock"))
	countBefore := histogramCount(t, OrderCreationDuration)

	ObserveOrderCreation(20*time.Millisecond, "")
	ObserveOrderCreation(5*time.Millisecond, "insufficient_stock")

	assert.Equal(t, createdBefore+1, testutil.ToFloat64(OrdersCreatedTotal))
	assert.Equal(t, stockBefore+1, testutil.ToFloat64(OrdersFailedTotal.WithLabelValues("insufficient_stock")))
	assert.Equal(t, countBefore+2, histogramCount(t, OrderCreationDuration))
}

func TestTrackOrderInProgress(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(OrdersInProgress)
	done := TrackOrderInProgress()
	assert.Equal(t, before+1, testutil.ToFloat64(OrdersInProgress))
	done()
	assert.Equal(t, before, testutil.ToFloat64(OrdersInProgress))
}

func TestBusinessCounters(t *testing.T) {
	InitMetrics()

	t.Run("资金流水", func(t *testing.T) {
		c := LedgerMovementsTotal.WithLabelValues("CREDIT", "ORDER_REVENUE")
		before := testutil.ToFloat64(c)
		RecordLedgerMovement("CREDIT", "ORDER_REVENUE")
		assert.Equal(t, before+1, testutil.ToFloat64(c))
	})

	t.Run("通知结果", func(t *testing.T) {
		failed := NotificationsTotal.WithLabelValues("failure")
		before := testutil.ToFloat64(failed)
		RecordNotification(errors.New("broker down"))
		assert.Equal(t, before+1, testutil.ToFloat64(failed))
	})

	t.Run("熔断器", func(t *testing.T) {
		RecordBreaker("order-events", "rejected", 1)
		assert.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("order-events")))
	})
}

func TestHTTPHelpers(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "GET", "path": "/api/v1/orders/:id", "status": "200"}
	before := testutil.ToFloat64(HTTPRequestsTotal.With(labels))
	IncCounterVec(HTTPRequestsTotal, labels)
	IncCounterVec(HTTPRequestsTotal, labels)
	assert.Equal(t, before+2, testutil.ToFloat64(HTTPRequestsTotal.With(labels)))

	ObserveHistogramVec(HTTPRequestDuration, map[string]string{"method": "GET", "path": "/ping"}, 0.01)
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.Histogram.GetSampleCount()
}
