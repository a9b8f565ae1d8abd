package inventory

import "context"

// AvailabilityCriteria selects the fulfillment strategy for a product. Exactly
// one criteria is active per product at a time.
type AvailabilityCriteria int

const (
	// AvailableWhenInStock fulfills only from on-hand stock
	AvailableWhenInStock AvailabilityCriteria = iota
	// AvailableForPreOrder sells ahead of release; shares back-order arithmetic
	AvailableForPreOrder
	// AvailableForBackOrder sells beyond on-hand stock up to an optional limit
	AvailableForBackOrder
	// AlwaysAvailable never constrains fulfillment
	AlwaysAvailable
)

// String implements fmt.Stringer
func (c AvailabilityCriteria) String() string {
	switch c {
	case AvailableWhenInStock:
		return "AVAILABLE_WHEN_IN_STOCK"
	case AvailableForPreOrder:
		return "AVAILABLE_FOR_PRE_ORDER"
	case AvailableForBackOrder:
		return "AVAILABLE_FOR_BACK_ORDER"
	case AlwaysAvailable:
		return "ALWAYS_AVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether c is one of the defined criteria
func (c AvailabilityCriteria) IsValid() bool {
	switch c {
	case AvailableWhenInStock, AvailableForPreOrder, AvailableForBackOrder, AlwaysAvailable:
		return true
	default:
		return false
	}
}

// HasSufficientInventory decides whether the requested quantity is fulfillable
// for a purchase under this criteria. A negative quantity is rejected with
// ErrInvalidQuantity regardless of stock state.
func (c AvailabilityCriteria) HasSufficientInventory(ctx context.Context, reader StockReader, key Key, quantity int) (bool, error) {
	if quantity < 0 {
		return false, ErrInvalidQuantity
	}

	switch c {
	case AlwaysAvailable:
		return true, nil
	case AvailableForBackOrder:
		// Back-order accepts the request regardless of on-hand stock; the
		// order limit is enforced at allocation time.
		return true, nil
	case AvailableWhenInStock, AvailableForPreOrder:
		return c.hasStockFor(ctx, reader, key, quantity)
	default:
		return false, nil
	}
}

// HasSufficientUnallocatedQty decides whether the requested quantity fits in
// the stock and pre/back-order headroom still unallocated for this key.
func (c AvailabilityCriteria) HasSufficientUnallocatedQty(ctx context.Context, reader StockReader, key Key, quantity int) (bool, error) {
	if quantity < 0 {
		return false, ErrInvalidQuantity
	}

	switch c {
	case AlwaysAvailable:
		return true, nil
	case AvailableWhenInStock:
		return c.hasStockFor(ctx, reader, key, quantity)
	case AvailableForPreOrder, AvailableForBackOrder:
		return c.hasUnallocatedPreOrBackOrderQty(ctx, reader, key, quantity)
	default:
		return false, nil
	}
}

// HandlePreOrBackOrderAllocation settles the SKU's pre/back-order counter for
// an allocation of the given quantity. Returns the quantity accepted on
// pre/back-order; criteria without pre/back-order semantics accept nothing.
func (c AvailabilityCriteria) HandlePreOrBackOrderAllocation(ctx context.Context, reader StockReader, skus SkuCounterWriter, skuCode string, quantity int) (int, error) {
	switch c {
	case AvailableForPreOrder, AvailableForBackOrder:
		return c.allocateOnPreOrBackOrder(ctx, reader, skus, skuCode, quantity)
	case AvailableWhenInStock, AlwaysAvailable:
		return 0, nil
	default:
		return 0, nil
	}
}

// HandlePreBackOrderStockAllocation decides how much of a requested allocation
// is served from physical stock; the remainder is implicitly destined for
// pre/back-order. Criteria without pre/back-order semantics pass the request
// through unchanged.
func (c AvailabilityCriteria) HandlePreBackOrderStockAllocation(ctx context.Context, reader StockReader, key Key, quantity int) (int, error) {
	switch c {
	case AvailableForPreOrder, AvailableForBackOrder:
		available, err := reader.AvailableInStockQty(ctx, key)
		if err != nil {
			return 0, err
		}
		if available < quantity {
			return available, nil
		}
		return quantity, nil
	case AvailableWhenInStock, AlwaysAvailable:
		return quantity, nil
	default:
		return quantity, nil
	}
}

func (c AvailabilityCriteria) hasStockFor(ctx context.Context, reader StockReader, key Key, quantity int) (bool, error) {
	available, err := reader.AvailableInStockQty(ctx, key)
	if err != nil {
		return false, err
	}
	return available >= quantity, nil
}

func (c AvailabilityCriteria) hasUnallocatedPreOrBackOrderQty(ctx context.Context, reader StockReader, key Key, quantity int) (bool, error) {
	caps, err := reader.Capabilities(ctx)
	if err != nil {
		return false, err
	}

	if !caps.Supports(CapabilityPreOrBackOrderLimit) {
		return true, nil
	}

	details, err := reader.PreOrBackOrderDetails(ctx, key.SKUCode)
	if err != nil {
		return false, err
	}
	if !details.HasLimit() {
		return true, nil
	}

	unallocated := details.Limit - details.Quantity
	needed := quantity - unallocated
	if needed <= 0 {
		return true, nil
	}
	// The limit headroom does not cover the request; the overflow must come
	// from physical stock.
	return c.hasStockFor(ctx, reader, key, needed)
}

func (c AvailabilityCriteria) allocateOnPreOrBackOrder(ctx context.Context, reader StockReader, skus SkuCounterWriter, skuCode string, quantity int) (int, error) {
	details, err := reader.PreOrBackOrderDetails(ctx, skuCode)
	if err != nil {
		return 0, err
	}

	projected := details.Quantity + quantity

	caps, err := reader.Capabilities(ctx)
	if err != nil {
		return 0, err
	}
	if caps.Supports(CapabilityPreOrBackOrderLimit) && details.HasLimit() && projected > details.Limit {
		return 0, ErrOrderLimitReached
	}

	if err := skus.SetPreOrBackOrderedQuantity(ctx, skuCode, projected); err != nil {
		return 0, err
	}
	return quantity, nil
}
