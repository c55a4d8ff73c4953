package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 业务与 HTTP 指标集合，零值与 nil 均可安全调用
type Metrics struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	ordersCreated     *prometheus.CounterVec
	stockFailures     *prometheus.CounterVec
	couponRedemptions *prometheus.CounterVec
	orderTransitions  *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
	jobFailures       *prometheus.CounterVec
}

// New 在给定注册器上注册全部指标，reg 为 nil 时返回不上报的实例
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders persisted at checkout.",
		}, []string{"payment_method"}),
		stockFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_reservation_failures_total",
			Help: "Order lines whose stock reservation failed.",
		}, []string{"reason"}),
		couponRedemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coupon_redemptions_total",
			Help: "Coupon usages recorded at checkout.",
		}, []string{"discount_type"}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order status transitions.",
		}, []string{"from", "to"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "job_duration_seconds",
			Help:    "Duration of background jobs in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		jobFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "job_failure",
			Help: "Failed background job executions.",
		}, []string{"job"}),
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.ordersCreated,
		m.stockFailures,
		m.couponRedemptions,
		m.orderTransitions,
		m.jobDuration,
		m.jobFailures,
	)
	return m
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.httpRequests == nil {
		return
	}
	route = normalizeLabel(route)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncOrderCreated 记录下单
func (m *Metrics) IncOrderCreated(paymentMethod string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncStockReservationFailure 记录库存预占失败
func (m *Metrics) IncStockReservationFailure(reason string) {
	if m == nil || m.stockFailures == nil {
		return
	}
	m.stockFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCouponRedemption 记录优惠券核销
func (m *Metrics) IncCouponRedemption(discountType string) {
	if m == nil || m.couponRedemptions == nil {
		return
	}
	m.couponRedemptions.WithLabelValues(normalizeLabel(discountType)).Inc()
}

// IncOrderTransition 记录订单状态流转
func (m *Metrics) IncOrderTransition(from, to string) {
	if m == nil || m.orderTransitions == nil {
		return
	}
	m.orderTransitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// ObserveJob 记录后台任务耗时与失败
func (m *Metrics) ObserveJob(job string, elapsed time.Duration, err error) {
	if m == nil || m.jobDuration == nil {
		return
	}
	job = normalizeLabel(job)
	m.jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
	if err != nil {
		m.jobFailures.WithLabelValues(job).Inc()
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
