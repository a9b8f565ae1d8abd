package pricing

import "github.com/shopspring/decimal"

// CatalogDiscount is a promotion's effect on a tier's computed price. It is
// cleared when a lower computed price supersedes the one it discounted.
type CatalogDiscount struct {
	RuleID   int64
	ActionID int64
	Amount   decimal.Decimal
}

// PriceTier is a quantity break carrying list, sale, and computed prices. A
// computed price, once set, only decreases and never drops below zero.
type PriceTier struct {
	MinQty           int
	listPrice        *decimal.Decimal
	salePrice        *decimal.Decimal
	computedPrice    *decimal.Decimal
	catalogDiscounts []CatalogDiscount
}

// NewPriceTier creates a tier for the given minimum quantity
func NewPriceTier(minQty int) *PriceTier {
	return &PriceTier{MinQty: minQty}
}

// SetListPrice sets the tier's list price
func (t *PriceTier) SetListPrice(price decimal.Decimal) {
	t.listPrice = &price
}

// ListPrice returns the tier's list price, if set
func (t *PriceTier) ListPrice() (decimal.Decimal, bool) {
	if t.listPrice == nil {
		return decimal.Decimal{}, false
	}
	return *t.listPrice, true
}

// SetSalePrice sets the tier's sale price
func (t *PriceTier) SetSalePrice(price decimal.Decimal) {
	t.salePrice = &price
}

// SalePrice returns the tier's sale price, if set
func (t *PriceTier) SalePrice() (decimal.Decimal, bool) {
	if t.salePrice == nil {
		return decimal.Decimal{}, false
	}
	return *t.salePrice, true
}

// ComputedPrice returns the tier's computed (promoted) price, if set
func (t *PriceTier) ComputedPrice() (decimal.Decimal, bool) {
	if t.computedPrice == nil {
		return decimal.Decimal{}, false
	}
	return *t.computedPrice, true
}

// SetComputedPriceIfLower records candidate as the computed price when the
// tier has none yet or candidate is lower than the current one. A negative
// candidate is clamped to zero. When a prior computed price is superseded, the
// catalog discounts attached to it are cleared; a candidate that does not beat
// the current price is ignored.
func (t *PriceTier) SetComputedPriceIfLower(candidate decimal.Decimal) {
	if candidate.IsNegative() {
		candidate = decimal.Zero
	}

	if t.computedPrice != nil && candidate.GreaterThanOrEqual(*t.computedPrice) {
		return
	}

	if t.computedPrice != nil {
		t.catalogDiscounts = nil
	}
	t.computedPrice = &candidate
}

// AddCatalogDiscount attaches a catalog discount to the current computed price
func (t *PriceTier) AddCatalogDiscount(discount CatalogDiscount) {
	t.catalogDiscounts = append(t.catalogDiscounts, discount)
}

// CatalogDiscounts returns the discounts attached to the current computed price
func (t *PriceTier) CatalogDiscounts() []CatalogDiscount {
	return t.catalogDiscounts
}

// PrePromotionPrice returns the better of list and sale price, ignoring any
// computed price
func (t *PriceTier) PrePromotionPrice() (decimal.Decimal, bool) {
	list, hasList := t.ListPrice()
	sale, hasSale := t.SalePrice()

	switch {
	case hasList && hasSale:
		if sale.LessThan(list) {
			return sale, true
		}
		return list, true
	case hasSale:
		return sale, true
	case hasList:
		return list, true
	default:
		return decimal.Decimal{}, false
	}
}

// LowestPrice returns the lowest of the tier's computed, sale, and list prices
func (t *PriceTier) LowestPrice() (decimal.Decimal, bool) {
	best, ok := t.PrePromotionPrice()

	if computed, has := t.ComputedPrice(); has {
		if !ok || computed.LessThan(best) {
			return computed, true
		}
	}
	return best, ok
}
