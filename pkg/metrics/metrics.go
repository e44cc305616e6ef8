// Package metrics Prometheus-метрики сервиса (HTTP, БД, бронирования)
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллектор метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec

	dbConnsOpen  prometheus.Gauge
	dbConnsInUse prometheus.Gauge
	dbConnsIdle  prometheus.Gauge

	bookingsCreatedTotal   *prometheus.CounterVec
	bookingsCancelledTotal prometheus.Counter
	allocationConflicts    prometheus.Counter
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		dbQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		dbConnsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}),
		dbConnsInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_in_use",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}),
		dbConnsIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),

		bookingsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Total number of bookings created, by status",
			ConstLabels: constLabels,
		}, []string{"status"}),

		bookingsCancelledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_cancelled_total",
			Help:        "Total number of bookings cancelled",
			ConstLabels: constLabels,
		}),

		allocationConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "allocation_serialization_conflicts_total",
			Help:        "Total number of serialization conflicts during allocation",
			ConstLabels: constLabels,
		}),
	}
}

// ObserveHTTPRequest фиксирует выполненный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет gauge-метрики пула соединений
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.dbConnsOpen.Set(float64(stats.OpenConnections))
	m.dbConnsInUse.Set(float64(stats.InUse))
	m.dbConnsIdle.Set(float64(stats.Idle))
}

// IncBookingCreated фиксирует созданное бронирование
func (m *Metrics) IncBookingCreated(status string) {
	m.bookingsCreatedTotal.WithLabelValues(status).Inc()
}

// IncBookingCancelled фиксирует отмену бронирования
func (m *Metrics) IncBookingCancelled() {
	m.bookingsCancelledTotal.Inc()
}

// IncAllocationConflict фиксирует конфликт сериализации при аллокации
func (m *Metrics) IncAllocationConflict() {
	m.allocationConflicts.Inc()
}
