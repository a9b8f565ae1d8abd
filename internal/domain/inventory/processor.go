package inventory

import "context"

// CommandProcessor applies the pre- and post-processing hooks for inventory
// commands against a backing store. It is stateless between calls except
// through the SKU counters it mutates; serialization of concurrent commands
// for the same (SKU, warehouse) is the caller's responsibility.
type CommandProcessor struct {
	reader StockReader
	skus   SkuCounterWriter
}

// NewCommandProcessor creates a CommandProcessor over the given store surfaces
func NewCommandProcessor(reader StockReader, skus SkuCounterWriter) *CommandProcessor {
	return &CommandProcessor{reader: reader, skus: skus}
}

// PreProcess adjusts the command quantity before the stock counters are
// touched and returns the adjusted quantity.
//
//   - StockAllocate delegates to the product's availability criteria: only
//     what physically exists is taken from stock, the remainder is implicitly
//     destined for pre/back-order.
//   - StockDeallocate clamps to the quantity actually allocated.
//   - StockAdjustment with a negative quantity deallocates against the
//     pre/back-order counter first and returns that result.
//   - All other event types pass the quantity through unchanged.
func (p *CommandProcessor) PreProcess(ctx context.Context, eventType InventoryEventType, criteria AvailabilityCriteria, key Key, quantity, allocatedQuantity int) (int, error) {
	switch eventType {
	case EventStockAllocate:
		return criteria.HandlePreBackOrderStockAllocation(ctx, p.reader, key, quantity)
	case EventStockDeallocate:
		if quantity > allocatedQuantity {
			return allocatedQuantity, nil
		}
		return quantity, nil
	case EventStockAdjustment:
		if quantity < 0 {
			return p.DeallocatePreOrBackOrder(ctx, key.SKUCode, -quantity)
		}
		return quantity, nil
	case EventUnknown, EventStockReceived, EventStockRelease:
		return quantity, nil
	default:
		return 0, ErrUnknownEventType
	}
}

// PostProcess settles the pre/back-order counter after the stock counters have
// been updated, recording the outcome on the result.
//
//   - StockAllocate routes whatever the on-hand allocation did not cover to
//     the pre/back-order counter via the availability criteria.
//   - StockDeallocate returns the non-stock portion to the counter. The
//     computed portion can go negative when the deallocation originates from
//     an order edit; it is clamped to zero by design, not an error.
//   - All other event types have no post-processing.
func (p *CommandProcessor) PostProcess(ctx context.Context, eventType InventoryEventType, criteria AvailabilityCriteria, skuCode string, quantity int, result *AllocationResult) error {
	switch eventType {
	case EventStockAllocate:
		preBackOrderQty := quantity - result.InventoryQuantityOrZero()
		allocated, err := criteria.HandlePreOrBackOrderAllocation(ctx, p.reader, p.skus, skuCode, preBackOrderQty)
		if err != nil {
			return err
		}
		result.QuantityAllocatedOnPreOrBackOrder = allocated
		return nil
	case EventStockDeallocate:
		preBackOrderQty := quantity - result.InventoryQuantityOrZero()
		if preBackOrderQty < 0 {
			preBackOrderQty = 0
		}
		_, err := p.DeallocatePreOrBackOrder(ctx, skuCode, preBackOrderQty)
		return err
	case EventUnknown, EventStockReceived, EventStockAdjustment, EventStockRelease:
		return nil
	default:
		return ErrUnknownEventType
	}
}

// DeallocatePreOrBackOrder removes up to quantity from the SKU's pre/back-order
// counter. When the counter covers the full quantity, the new counter value is
// returned; when it does not, the counter is cleared and the shortfall that
// could not be deallocated is returned.
func (p *CommandProcessor) DeallocatePreOrBackOrder(ctx context.Context, skuCode string, quantity int) (int, error) {
	if quantity < 0 {
		return 0, ErrInvalidQuantity
	}

	details, err := p.reader.PreOrBackOrderDetails(ctx, skuCode)
	if err != nil {
		return 0, err
	}

	remainder := details.Quantity - quantity
	if remainder < 0 {
		if err := p.skus.SetPreOrBackOrderedQuantity(ctx, skuCode, 0); err != nil {
			return 0, err
		}
		return -remainder, nil
	}

	if err := p.skus.SetPreOrBackOrderedQuantity(ctx, skuCode, remainder); err != nil {
		return 0, err
	}
	return remainder, nil
}
