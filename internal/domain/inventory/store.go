package inventory

import "context"

// StockReader answers availability queries against the backing inventory store.
//
// Implementations are not required to serialize concurrent callers; the
// allocation contract assumes the caller holds an exclusive lock (or performs
// an atomic compare-and-swap) on the (SKU, warehouse) counters for the
// duration of one allocate/deallocate pair.
type StockReader interface {
	// AvailableInStockQty returns the on-hand, unallocated quantity for a key.
	// A missing record reads as zero stock, not an error.
	AvailableInStockQty(ctx context.Context, key Key) (int, error)

	// PreOrBackOrderDetails returns the SKU's pre/back-order counter and limit
	PreOrBackOrderDetails(ctx context.Context, skuCode string) (PreOrBackOrderDetails, error)

	// Capabilities reports the optional features this store supports
	Capabilities(ctx context.Context) (CapabilitySet, error)
}

// SkuCounterWriter persists the pre/back-ordered quantity counter for a SKU
type SkuCounterWriter interface {
	SetPreOrBackOrderedQuantity(ctx context.Context, skuCode string, quantity int) error
}

// StockWriter mutates the on-hand and allocated counters for a key, returning
// the snapshot after the mutation
type StockWriter interface {
	AdjustQuantityOnHand(ctx context.Context, key Key, delta int) (Snapshot, error)
	AdjustAllocatedQuantity(ctx context.Context, key Key, delta int) (Snapshot, error)
	Snapshot(ctx context.Context, key Key) (Snapshot, error)
}

// Store is the full backing-store surface the command processor needs
type Store interface {
	StockReader
	SkuCounterWriter
	StockWriter
}

// AuditRepository persists the audit trail of processed inventory commands
type AuditRepository interface {
	Save(ctx context.Context, audit *Audit) error
}

// EventPublisher publishes domain events raised while processing commands
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}
