package inventory

// InventoryEventType identifies the requested stock mutation
type InventoryEventType int

const (
	// EventUnknown is the zero value; processed as a no-op passthrough
	EventUnknown InventoryEventType = iota
	// EventStockReceived adds received stock to the on-hand counter
	EventStockReceived
	// EventStockAdjustment adjusts on-hand stock; a negative quantity first
	// deallocates against the pre/back-order counter
	EventStockAdjustment
	// EventStockAllocate reserves stock for an order, in-stock first
	EventStockAllocate
	// EventStockDeallocate returns allocated stock, pre/back-order first
	EventStockDeallocate
	// EventStockRelease removes allocated stock when an order ships
	EventStockRelease
)

// String implements fmt.Stringer
func (t InventoryEventType) String() string {
	switch t {
	case EventStockReceived:
		return "STOCK_RECEIVED"
	case EventStockAdjustment:
		return "STOCK_ADJUSTMENT"
	case EventStockAllocate:
		return "STOCK_ALLOCATE"
	case EventStockDeallocate:
		return "STOCK_DEALLOCATE"
	case EventStockRelease:
		return "STOCK_RELEASE"
	case EventUnknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether t is one of the defined event types
func (t InventoryEventType) IsValid() bool {
	switch t {
	case EventUnknown, EventStockReceived, EventStockAdjustment, EventStockAllocate, EventStockDeallocate, EventStockRelease:
		return true
	default:
		return false
	}
}

// AllocationResult reports the outcome of one processed inventory command.
//
// Quantity is the command quantity after pre-processing. InventoryQuantity is
// the portion served from physical stock; nil means no on-hand component was
// determined. QuantityAllocatedOnPreOrBackOrder is the portion settled against
// the SKU's pre/back-order counter.
type AllocationResult struct {
	Quantity                          int       `json:"quantity"`
	InventoryQuantity                 *int      `json:"inventoryQuantity,omitempty"`
	QuantityAllocatedOnPreOrBackOrder int       `json:"quantityAllocatedOnPreOrBackOrder"`
	InventoryAfter                    *Snapshot `json:"inventoryAfter,omitempty"`
}

// SetInventoryQuantity records the on-hand portion of the allocation
func (r *AllocationResult) SetInventoryQuantity(qty int) {
	r.InventoryQuantity = &qty
}

// InventoryQuantityOrZero returns the on-hand portion, zero when undetermined
func (r *AllocationResult) InventoryQuantityOrZero() int {
	if r.InventoryQuantity == nil {
		return 0
	}
	return *r.InventoryQuantity
}
