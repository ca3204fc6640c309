package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約の総数（status: success, capacity_exceeded, already_booked, not_found, transient, error）
	BookingsTotal *prometheus.CounterVec

	// 評価の総数（status: created, updated, invalid_score, not_found, not_participant, transient, error）
	RatingsTotal *prometheus.CounterVec

	// トランザクション競合によるリトライ回数（operation: book, rate, recompute）
	TransactionRetriesTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of booking attempts by outcome",
			},
			[]string{"status"},
		),
		RatingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratings_total",
				Help: "Total number of rating attempts by outcome",
			},
			[]string{"status"},
		),
		TransactionRetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_retries_total",
				Help: "Number of transaction attempts retried after a conflict",
			},
			[]string{"operation"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.RatingsTotal,
		m.TransactionRetriesTotal,
		m.DistributedLockDuration,
	)

	return m
}

// ObserveBooking は予約結果を記録する（nil レシーバ可）
func (m *Metrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(status).Inc()
}

// ObserveRating は評価結果を記録する（nil レシーバ可）
func (m *Metrics) ObserveRating(status string) {
	if m == nil {
		return
	}
	m.RatingsTotal.WithLabelValues(status).Inc()
}

// ObserveRetry はトランザクションのリトライを記録する（nil レシーバ可）
func (m *Metrics) ObserveRetry(operation string) {
	if m == nil {
		return
	}
	m.TransactionRetriesTotal.WithLabelValues(operation).Inc()
}

// ObserveLock は分散ロック操作の所要時間を記録する（nil レシーバ可）
func (m *Metrics) ObserveLock(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(seconds)
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
