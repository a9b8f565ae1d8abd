package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the commerce-core instrumentation
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// Inventory metrics
	InventoryCommandsTotal   *prometheus.CounterVec
	InventoryCommandDuration *prometheus.HistogramVec
	OrderLimitRejections     *prometheus.CounterVec
	PreOrBackOrderAllocated  *prometheus.CounterVec

	// Promotion metrics
	DiscountRecordsWritten    *prometheus.CounterVec
	DiscountRecordsSuperseded *prometheus.CounterVec

	// Store metrics
	StoreOperations        *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec

	// Event metrics
	EventsPublished *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "commerce",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.InventoryCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "inventory_commands_total",
			Help:      "Total inventory commands processed by event type and outcome",
		},
		[]string{"event_type", "outcome"},
	)

	m.InventoryCommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "inventory_command_duration_seconds",
			Help:      "Duration of inventory command processing",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"event_type"},
	)

	m.OrderLimitRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "order_limit_rejections_total",
			Help:      "Allocations rejected because the pre/back-order limit was reached",
		},
		[]string{"sku"},
	)

	m.PreOrBackOrderAllocated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "pre_or_back_order_allocated_total",
			Help:      "Quantity allocated to pre/back-order rather than on-hand stock",
		},
		[]string{"sku"},
	)

	m.DiscountRecordsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "discount_records_written_total",
			Help:      "Discount records written to the promotion ledger",
		},
		[]string{"kind"},
	)

	m.DiscountRecordsSuperseded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "discount_records_superseded_total",
			Help:      "Discount records marked superseded by a better discount",
		},
		[]string{"kind"},
	)

	m.StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "store_operations_total",
			Help:      "Backing store operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	m.StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of backing store operations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	m.EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "events_published_total",
			Help:      "Domain events published by event type and status",
		},
		[]string{"event_type", "status"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_trips_total",
			Help:      "Circuit breaker open transitions",
		},
		[]string{"name"},
	)

	registry.MustRegister(
		m.InventoryCommandsTotal,
		m.InventoryCommandDuration,
		m.OrderLimitRejections,
		m.PreOrBackOrderAllocated,
		m.DiscountRecordsWritten,
		m.DiscountRecordsSuperseded,
		m.StoreOperations,
		m.StoreOperationDuration,
		m.EventsPublished,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an http.Handler exposing the registry, for embedding by callers
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStoreOperation records one backing store operation
func (m *Metrics) ObserveStoreOperation(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.StoreOperations.WithLabelValues(operation, status).Inc()
	m.StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
