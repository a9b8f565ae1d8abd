package mongodb

import (
	"time"

	"github.com/sony/gobreaker"

	"github.com/commerce-platform/commerce-core/pkg/logging"
	"github.com/commerce-platform/commerce-core/pkg/metrics"
)

// Breaker wraps backing store operations in a circuit breaker so a degraded
// MongoDB deployment sheds load fast instead of queueing callers.
type Breaker struct {
	cb      *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
}

// NewBreaker creates a circuit breaker for the named store
func NewBreaker(name string, m *metrics.Metrics, logger *logging.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 && counts.TotalFailures*2 >= counts.Requests
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
			m.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			if to == gobreaker.StateOpen {
				m.CircuitBreakerTrips.WithLabelValues(name).Inc()
			}
		},
	}

	return &Breaker{
		cb:      gobreaker.NewCircuitBreaker(settings),
		metrics: m,
	}
}

// Execute runs one named store operation through the breaker, recording its
// outcome and duration
func (b *Breaker) Execute(operation string, fn func() (interface{}, error)) (interface{}, error) {
	start := time.Now()
	result, err := b.cb.Execute(fn)
	b.metrics.ObserveStoreOperation(operation, start, err)
	return result, err
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
