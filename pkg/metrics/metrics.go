package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec

	BookingsTotal   *prometheus.CounterVec
	SweepItemsTotal *prometheus.CounterVec
}

// New регистрирует метрики в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),
		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_bookings_total",
			Help:        "Booking attempts by kind and outcome",
			ConstLabels: constLabels,
		}, []string{"kind", "outcome"}),
		SweepItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "sweep_items_total",
			Help:        "Items handled by periodic jobs",
			ConstLabels: constLabels,
		}, []string{"job", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.BookingsTotal,
		m.SweepItemsTotal,
	)

	return m
}

// ObserveHTTP фиксирует обработанный HTTP-запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetPoolStats обновляет метрики пула соединений
func (m *Metrics) SetPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues().Set(float64(open))
	m.DBInUseConnections.WithLabelValues().Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues().Set(float64(idle))
}

// ObserveBooking kind: slot, freeform, schedule, manual; outcome: success, conflict, rejected, error
func (m *Metrics) ObserveBooking(kind, outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveSweepItem job: reminders, slots, archive; result: processed, skipped, failed
func (m *Metrics) ObserveSweepItem(job, result string) {
	if m == nil {
		return
	}
	m.SweepItemsTotal.WithLabelValues(job, result).Inc()
}
