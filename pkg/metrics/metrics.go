// Package metrics 基于Prometheus的指标收集
//
// 指标分三类：
//   - HTTP：请求数、耗时、处理中请求数
//   - 业务：订单创建/失败、订单状态变更、平台资金流水、下单通知
//   - 基础设施：熔断器状态、消息发布/消费
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 不使用user_id、order_code这类高基数标签。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	order, err := createOrder(ctx)
//	metrics.ObserveOrderCreation(time.Since(start), err)
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数，标签：method、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// OrdersCreatedTotal 订单创建总数
	OrdersCreatedTotal prometheus.Counter

	// OrdersFailedTotal 订单创建失败总数，标签：reason（错误类别）
	OrdersFailedTotal *prometheus.CounterVec

	// OrderCreationDuration 订单创建耗时（整个事务）
	OrderCreationDuration prometheus.Histogram

	// OrdersInProgress 正在处理的下单请求数
	OrdersInProgress prometheus.Gauge

	// OrderStatusUpdatesTotal 订单状态变更次数，标签：status
	OrderStatusUpdatesTotal *prometheus.CounterVec

	// LedgerMovementsTotal 平台资金流水笔数，标签：kind（CREDIT/DEBIT）、reason
	LedgerMovementsTotal *prometheus.CounterVec

	// NotificationsTotal 下单通知发送结果，标签：result（success/failure）
	NotificationsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数，标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数，标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数，标签：queue、result
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册所有指标到默认Registry，可重复调用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "订单创建总数",
		},
	)

	OrdersFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "订单创建失败总数",
		},
		[]string{"reason"},
	)

	// 下单在一个数据库事务内完成，桶从5ms开始
	OrderCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_creation_duration_seconds",
			Help:    "订单创建耗时（秒）",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	OrdersInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orders_in_progress",
			Help: "正在处理的下单请求数",
		},
	)

	OrderStatusUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_updates_total",
			Help: "订单状态变更次数",
		},
		[]string{"status"},
	)

	LedgerMovementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_movements_total",
			Help: "平台资金流水笔数",
		},
		[]string{"kind", "reason"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_notifications_total",
			Help: "下单通知发送结果",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// =========================================
// 业务埋点（未初始化时静默跳过，单元测试无需注册指标）
// =========================================

// ObserveOrderCreation 记录一次下单结果
func ObserveOrderCreation(d time.Duration, reason string) {
	if OrdersCreatedTotal == nil {
		return
	}
	OrderCreationDuration.Observe(d.Seconds())
	if reason == "" {
		OrdersCreatedTotal.Inc()
		return
	}
	OrdersFailedTotal.WithLabelValues(reason).Inc()
}

// TrackOrderInProgress 下单开始时调用，返回值在结束时调用
func TrackOrderInProgress() func() {
	if OrdersInProgress == nil {
		return func() {}
	}
	OrdersInProgress.Inc()
	return OrdersInProgress.Dec
}

// RecordStatusUpdate 记录订单状态变更
func RecordStatusUpdate(status string) {
	if OrderStatusUpdatesTotal == nil {
		return
	}
	OrderStatusUpdatesTotal.WithLabelValues(status).Inc()
}

// RecordLedgerMovement 记录一笔资金流水
func RecordLedgerMovement(kind, reason string) {
	if LedgerMovementsTotal == nil {
		return
	}
	LedgerMovementsTotal.WithLabelValues(kind, reason).Inc()
}

// RecordNotification 记录通知发送结果
func RecordNotification(err error) {
	if NotificationsTotal == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	NotificationsTotal.WithLabelValues(result).Inc()
}

// RecordBreaker 记录熔断器请求结果与当前状态
func RecordBreaker(name, result string, state int) {
	if CircuitBreakerRequests == nil {
		return
	}
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordPublished 记录一次消息发布
func RecordPublished(exchange, routingKey string) {
	if MessagesPublishedTotal == nil {
		return
	}
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey).Inc()
}

// RecordConsumed 记录一次消息消费
func RecordConsumed(queue string, d time.Duration, err error) {
	if MessagesConsumedTotal == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	MessagesConsumedTotal.WithLabelValues(queue, result).Inc()
	MessageProcessingDuration.Observe(d.Seconds())
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
