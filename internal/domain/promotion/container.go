package promotion

import "sort"

type recordKey struct {
	ruleID   int64
	actionID int64
	kind     RecordKind
	subject  string
}

func keyOf(r *DiscountRecord) recordKey {
	return recordKey{ruleID: r.RuleID, actionID: r.ActionID, kind: r.Kind, subject: r.subjectKey()}
}

// Observer receives ledger write notifications, e.g. for instrumentation
type Observer interface {
	RecordWritten(kind RecordKind)
	RecordSuperseded(kind RecordKind)
}

// PromotionRecordContainer is the per-cart ledger of discount applications.
// Records are retained for audit even after a better discount supersedes them.
// The container is owned exclusively by its cart and is not safe for
// concurrent mutation.
type PromotionRecordContainer struct {
	cart     *Cart
	records  map[recordKey]*DiscountRecord
	order    []recordKey
	observer Observer
}

func newPromotionRecordContainer(cart *Cart) *PromotionRecordContainer {
	return &PromotionRecordContainer{
		cart:    cart,
		records: make(map[recordKey]*DiscountRecord),
	}
}

// SetObserver installs an observer for ledger writes; nil removes it
func (c *PromotionRecordContainer) SetObserver(observer Observer) {
	c.observer = observer
}

// AddDiscountRecord inserts or updates a discount record.
//
// Re-applying the exact same (rule, action, subject) replaces the record in
// place. Otherwise the record competes with existing records for the same
// subject: the larger discount wins and every loser is marked superseded, new
// and old alike. Subtotal discounts are additionally clamped so the recorded
// amount never exceeds the cart subtotal at time of writing.
func (c *PromotionRecordContainer) AddDiscountRecord(record *DiscountRecord) {
	if record.Kind == KindSubtotal && c.cart != nil {
		if subtotal := c.cart.Subtotal(); record.Amount.GreaterThan(subtotal) {
			record.Amount = subtotal
		}
	}

	key := keyOf(record)
	if _, exists := c.records[key]; !exists {
		c.order = append(c.order, key)
	}
	c.records[key] = record

	c.resolveWinner(record)

	if c.observer != nil {
		c.observer.RecordWritten(record.Kind)
	}
}

// resolveWinner applies the "larger discount wins" rule among all records for
// the record's subject. Ties go to the incumbent.
func (c *PromotionRecordContainer) resolveWinner(record *DiscountRecord) {
	if record.Kind == KindCatalogItem || record.Superseded {
		return
	}

	for _, key := range c.order {
		other := c.records[key]
		if other == record || !other.SameSubject(record) || other.Superseded {
			continue
		}
		if other.Amount.GreaterThanOrEqual(record.Amount) {
			c.supersede(record)
			return
		}
		c.supersede(other)
	}
}

func (c *PromotionRecordContainer) supersede(record *DiscountRecord) {
	if record.Superseded {
		return
	}
	record.Superseded = true
	if c.observer != nil {
		c.observer.RecordSuperseded(record.Kind)
	}
}

// DiscountRecord returns the most recently written record for a rule+action
// pair, across all subjects
func (c *PromotionRecordContainer) DiscountRecord(ruleID, actionID int64) (*DiscountRecord, bool) {
	for i := len(c.order) - 1; i >= 0; i-- {
		key := c.order[i]
		if key.ruleID == ruleID && key.actionID == actionID {
			return c.records[key], true
		}
	}
	return nil, false
}

// AllDiscountRecords returns every record in insertion order, superseded
// records included
func (c *PromotionRecordContainer) AllDiscountRecords() []*DiscountRecord {
	result := make([]*DiscountRecord, 0, len(c.order))
	for _, key := range c.order {
		result = append(result, c.records[key])
	}
	return result
}

// AppliedRules returns the distinct rule IDs with at least one winning record.
// Shipping records only count when their option is the cart's currently
// selected shipping option.
func (c *PromotionRecordContainer) AppliedRules() []int64 {
	selected := ""
	if c.cart != nil {
		selected = c.cart.SelectedShippingOptionCode()
	}

	seen := make(map[int64]struct{})
	for _, key := range c.order {
		record := c.records[key]
		if record.Superseded {
			continue
		}
		if record.Kind == KindShipping && record.ShippingOptionCode != selected {
			continue
		}
		seen[record.RuleID] = struct{}{}
	}
	return sortedRuleIDs(seen)
}

// AppliedRulesByLineItem returns the rule IDs with a winning item record for
// the given shopping item
func (c *PromotionRecordContainer) AppliedRulesByLineItem(itemGUID string) []int64 {
	seen := make(map[int64]struct{})
	for _, key := range c.order {
		record := c.records[key]
		if record.Superseded || record.Kind != KindItem || record.ShoppingItemGUID != itemGUID {
			continue
		}
		seen[record.RuleID] = struct{}{}
	}
	return sortedRuleIDs(seen)
}

// AppliedRulesByShippingServiceLevel returns the rule IDs with a winning
// shipping record for the given option, regardless of the cart's current
// selection
func (c *PromotionRecordContainer) AppliedRulesByShippingServiceLevel(shippingOptionCode string) []int64 {
	seen := make(map[int64]struct{})
	for _, key := range c.order {
		record := c.records[key]
		if record.Superseded || record.Kind != KindShipping || record.ShippingOptionCode != shippingOptionCode {
			continue
		}
		seen[record.RuleID] = struct{}{}
	}
	return sortedRuleIDs(seen)
}

// Clear drops all records and indices
func (c *PromotionRecordContainer) Clear() {
	c.records = make(map[recordKey]*DiscountRecord)
	c.order = nil
}

func sortedRuleIDs(seen map[int64]struct{}) []int64 {
	result := make([]int64, 0, len(seen))
	for ruleID := range seen {
		result = append(result, ruleID)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
