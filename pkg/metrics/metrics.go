package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "myduka"

// Stock adjustment kinds
const (
	StockCreated        = "created"
	StockIncremented    = "incremented"
	StockReplaced       = "replaced"
	StockSupplyApproved = "supply_approved"
)

// Metrics holds the service collectors. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests           *prometheus.CounterVec
	httpDuration           *prometheus.HistogramVec
	supplyRequestsCreated  prometheus.Counter
	supplyRequestsResolved *prometheus.CounterVec
	stockAdjustments       *prometheus.CounterVec
	stockUnits             *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		supplyRequestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "supply_requests_created_total",
			Help:      "Supply requests opened by clerks.",
		}),
		supplyRequestsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "supply_requests_resolved_total",
			Help:      "Supply requests resolved by admins, by final status.",
		}, []string{"status"}),
		stockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Stock mutations by kind.",
		}, []string{"kind"}),
		stockUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_added_total",
			Help:      "Units added to stock by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.supplyRequestsCreated,
		m.supplyRequestsResolved,
		m.stockAdjustments,
		m.stockUnits,
	)
	return m
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

// SupplyRequestCreated counts a new pending supply request
func (m *Metrics) SupplyRequestCreated() {
	if m == nil {
		return
	}
	m.supplyRequestsCreated.Inc()
}

// SupplyRequestResolved counts a resolution by final status
func (m *Metrics) SupplyRequestResolved(status string) {
	if m == nil {
		return
	}
	m.supplyRequestsResolved.WithLabelValues(status).Inc()
}

// StockAdjusted counts a stock mutation and the units it added
func (m *Metrics) StockAdjusted(kind string, units int) {
	if m == nil {
		return
	}
	m.stockAdjustments.WithLabelValues(kind).Inc()
	if units > 0 {
		m.stockUnits.WithLabelValues(kind).Add(float64(units))
	}
}
