package pricing

import "github.com/shopspring/decimal"

// PriceSchedule distinguishes when a price applies
type PriceSchedule string

const (
	// SchedulePurchaseTime is the one-time price paid at checkout
	SchedulePurchaseTime PriceSchedule = "PURCHASE_TIME"
	// ScheduleRecurring is a repeating price, e.g. a subscription billing cycle
	ScheduleRecurring PriceSchedule = "RECURRING"
)

// PricingScheme is a collection of prices keyed by schedule
type PricingScheme struct {
	schedules map[PriceSchedule]*Price
}

// NewPricingScheme creates an empty PricingScheme
func NewPricingScheme() *PricingScheme {
	return &PricingScheme{schedules: make(map[PriceSchedule]*Price)}
}

// SetPrice registers the price for a schedule
func (s *PricingScheme) SetPrice(schedule PriceSchedule, price *Price) {
	s.schedules[schedule] = price
}

// PriceForSchedule returns the price registered for a schedule
func (s *PricingScheme) PriceForSchedule(schedule PriceSchedule) (*Price, bool) {
	price, ok := s.schedules[schedule]
	return price, ok
}

// PurchaseTimePrice returns the purchase-time price. It never returns nil; an
// unset schedule yields an empty price whose lookups report absence.
func (s *PricingScheme) PurchaseTimePrice() *Price {
	if price, ok := s.schedules[SchedulePurchaseTime]; ok {
		return price
	}
	return NewPrice()
}

// Schedules returns the schedules with a registered price
func (s *PricingScheme) Schedules() []PriceSchedule {
	result := make([]PriceSchedule, 0, len(s.schedules))
	for schedule := range s.schedules {
		result = append(result, schedule)
	}
	return result
}

// LowestPrice returns the minimum price across all schedules' tiers
func (s *PricingScheme) LowestPrice() (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false

	for _, price := range s.schedules {
		candidate, ok := price.LowestPrice()
		if !ok {
			continue
		}
		if !found || candidate.LessThan(best) {
			best = candidate
			found = true
		}
	}
	return best, found
}
