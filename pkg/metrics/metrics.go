package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	dbQueryDuration  *prometheus.HistogramVec
	dbQueryErrors    *prometheus.CounterVec
	dbOpenConns      prometheus.Gauge
	dbInUseConns     prometheus.Gauge
	dbIdleConns      prometheus.Gauge
	dbWaitCount      prometheus.Gauge
	dbWaitDurationMs prometheus.Gauge

	bookingsCreated   *prometheus.CounterVec
	paymentsVerified  *prometheus.CounterVec
	bookingsExpired   prometheus.Counter
	outboxPublished   *prometheus.CounterVec
	idempotentReplays prometheus.Counter
}

// New регистрирует метрики в глобальном registry prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests being served",
			ConstLabels: labels,
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: labels,
		}, []string{"operation"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: labels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: labels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),
		dbWaitDurationMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_wait_duration_ms",
			Help:        "Total time blocked waiting for a connection",
			ConstLabels: labels,
		}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_bookings_created_total",
			Help:        "Bookings created, by vehicle type",
			ConstLabels: labels,
		}, []string{"vehicle_type"}),
		paymentsVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_payments_verified_total",
			Help:        "Payment verification attempts, by result",
			ConstLabels: labels,
		}, []string{"result"}),
		bookingsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "parking_bookings_expired_total",
			Help:        "Pending bookings expired by the sweeper",
			ConstLabels: labels,
		}),
		outboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_outbox_events_total",
			Help:        "Outbox events handled by the relay, by result",
			ConstLabels: labels,
		}, []string{"result"}),
		idempotentReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "parking_idempotent_replays_total",
			Help:        "Responses replayed for a repeated Idempotency-Key",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpInFlight,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
		m.dbWaitDurationMs,
		m.bookingsCreated,
		m.paymentsVerified,
		m.bookingsExpired,
		m.outboxPublished,
		m.idempotentReplays,
	)

	return m
}

// ObserveHTTPRequest записывает результат HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) IncInFlight() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

func (m *Metrics) DecInFlight() {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64, waitDuration time.Duration) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(open))
	m.dbInUseConns.Set(float64(inUse))
	m.dbIdleConns.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
	m.dbWaitDurationMs.Set(float64(waitDuration.Milliseconds()))
}

func (m *Metrics) IncBookingsCreated(vehicleType string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(vehicleType).Inc()
}

// IncPaymentsVerified result: paid, already_paid, rejected
func (m *Metrics) IncPaymentsVerified(result string) {
	if m == nil {
		return
	}
	m.paymentsVerified.WithLabelValues(result).Inc()
}

func (m *Metrics) AddBookingsExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bookingsExpired.Add(float64(n))
}

// IncOutboxEvents result: published, retry, failed
func (m *Metrics) IncOutboxEvents(result string) {
	if m == nil {
		return
	}
	m.outboxPublished.WithLabelValues(result).Inc()
}

func (m *Metrics) IncIdempotentReplays() {
	if m == nil {
		return
	}
	m.idempotentReplays.Inc()
}
