// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型速记：
// - Counter（计数器）：只增不减（请求总数、订单总数）
// - Gauge（仪表盘）：可增可减（在线SSE客户端数、处理中请求数）
// - Histogram（直方图）：观测值分布，自动计算分位数（请求耗时）
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds），
// 标签只用低基数维度（method/path/status），不用user_id之类的高基数值。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method（GET/POST）、path、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 订单业务指标

	// OrdersPlacedTotal 下单成功总数
	OrdersPlacedTotal prometheus.Counter

	// OrdersFailedTotal 下单失败总数
	OrdersFailedTotal prometheus.Counter

	// OrderPlacementDuration 下单耗时
	OrderPlacementDuration prometheus.Histogram

	// OrdersFulfilledTotal 订单完成总数
	OrdersFulfilledTotal prometheus.Counter

	// 实时推送指标

	// SSEClientsConnected 在线SSE客户端数
	SSEClientsConnected prometheus.Gauge

	// EventsBroadcastTotal 广播事件总数
	// 标签：type（order_fulfilled/announcement）
	EventsBroadcastTotal *prometheus.CounterVec

	// 收据发件箱指标

	// ReceiptsSentTotal 收据邮件发送成功总数
	ReceiptsSentTotal prometheus.Counter

	// ReceiptsFailedTotal 收据邮件发送失败总数
	ReceiptsFailedTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次，注册到默认Registry后由/metrics端点暴露
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

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

	OrdersPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "下单成功总数",
		},
	)

	OrdersFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "下单失败总数",
		},
	)

	OrderPlacementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "order_placement_duration_seconds",
			Help: "下单耗时（秒）",
			// 下单涉及锁库存+多表写入,桶放宽到10s
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	OrdersFulfilledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_fulfilled_total",
			Help: "订单完成总数",
		},
	)

	SSEClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_clients_connected",
			Help: "在线SSE客户端数",
		},
	)

	EventsBroadcastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_broadcast_total",
			Help: "广播事件总数",
		},
		[]string{"type"},
	)

	ReceiptsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "receipts_sent_total",
			Help: "收据邮件发送成功总数",
		},
	)

	ReceiptsFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "receipts_failed_total",
			Help: "收据邮件发送失败总数",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}
