package application

import (
	"github.com/commerce-platform/commerce-core/internal/domain/promotion"
	"github.com/commerce-platform/commerce-core/pkg/metrics"
)

// LedgerMetricsObserver feeds promotion ledger writes into the metrics registry
type LedgerMetricsObserver struct {
	metrics *metrics.Metrics
}

// NewLedgerMetricsObserver creates an observer backed by the given metrics
func NewLedgerMetricsObserver(m *metrics.Metrics) *LedgerMetricsObserver {
	return &LedgerMetricsObserver{metrics: m}
}

// RecordWritten implements promotion.Observer
func (o *LedgerMetricsObserver) RecordWritten(kind promotion.RecordKind) {
	o.metrics.DiscountRecordsWritten.WithLabelValues(string(kind)).Inc()
}

// RecordSuperseded implements promotion.Observer
func (o *LedgerMetricsObserver) RecordSuperseded(kind promotion.RecordKind) {
	o.metrics.DiscountRecordsSuperseded.WithLabelValues(string(kind)).Inc()
}

// InstrumentCart installs the observer on the cart's promotion record container
func (o *LedgerMetricsObserver) InstrumentCart(cart *promotion.Cart) {
	cart.PromotionRecordContainer().SetObserver(o)
}
