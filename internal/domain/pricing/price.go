package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Price is a set of quantity tiers for one SKU under one price schedule.
// Tiers are unique by minimum quantity.
type Price struct {
	tiers map[int]*PriceTier
	// minQtys is kept sorted ascending for floor lookups
	minQtys []int
}

// NewPrice creates an empty Price
func NewPrice() *Price {
	return &Price{tiers: make(map[int]*PriceTier)}
}

// AddTier registers a tier, replacing any existing tier with the same MinQty
func (p *Price) AddTier(tier *PriceTier) {
	if _, exists := p.tiers[tier.MinQty]; !exists {
		p.minQtys = append(p.minQtys, tier.MinQty)
		sort.Ints(p.minQtys)
	}
	p.tiers[tier.MinQty] = tier
}

// Tiers returns the tiers sorted ascending by minimum quantity
func (p *Price) Tiers() []*PriceTier {
	result := make([]*PriceTier, 0, len(p.minQtys))
	for _, minQty := range p.minQtys {
		result = append(result, p.tiers[minQty])
	}
	return result
}

// PriceTierByQty returns the tier with the greatest MinQty not exceeding qty.
// When qty is below every tier, the tier with the smallest MinQty is returned.
func (p *Price) PriceTierByQty(qty int) (*PriceTier, bool) {
	if len(p.minQtys) == 0 {
		return nil, false
	}

	// Index of the first tier above qty; the floor tier sits just before it.
	idx := sort.SearchInts(p.minQtys, qty+1)
	if idx == 0 {
		return p.tiers[p.minQtys[0]], true
	}
	return p.tiers[p.minQtys[idx-1]], true
}

// PriceTierByExactMinQty returns the tier whose MinQty matches exactly
func (p *Price) PriceTierByExactMinQty(minQty int) (*PriceTier, bool) {
	tier, ok := p.tiers[minQty]
	return tier, ok
}

// ListPrice resolves the list price for the given quantity
func (p *Price) ListPrice(qty int) (decimal.Decimal, bool) {
	tier, ok := p.PriceTierByQty(qty)
	if !ok {
		return decimal.Decimal{}, false
	}
	return tier.ListPrice()
}

// SalePrice resolves the sale price for the given quantity
func (p *Price) SalePrice(qty int) (decimal.Decimal, bool) {
	tier, ok := p.PriceTierByQty(qty)
	if !ok {
		return decimal.Decimal{}, false
	}
	return tier.SalePrice()
}

// PrePromotionPrice resolves the better of list and sale price for the given
// quantity, ignoring computed prices
func (p *Price) PrePromotionPrice(qty int) (decimal.Decimal, bool) {
	tier, ok := p.PriceTierByQty(qty)
	if !ok {
		return decimal.Decimal{}, false
	}
	return tier.PrePromotionPrice()
}

// LowestPrice returns the lowest price across all tiers
func (p *Price) LowestPrice() (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false

	for _, minQty := range p.minQtys {
		price, ok := p.tiers[minQty].LowestPrice()
		if !ok {
			continue
		}
		if !found || price.LessThan(best) {
			best = price
			found = true
		}
	}
	return best, found
}
