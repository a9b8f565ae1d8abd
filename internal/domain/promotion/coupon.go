package promotion

import "errors"

// CouponUsageType controls how a coupon's usage limit is counted
type CouponUsageType string

const (
	// UsageLimitPerCoupon counts uses across all shoppers
	UsageLimitPerCoupon CouponUsageType = "LIMIT_PER_COUPON"
	// UsageLimitPerAnyUser counts uses per shopper for a shared code
	UsageLimitPerAnyUser CouponUsageType = "LIMIT_PER_ANY_USER"
	// UsageLimitPerSpecifiedUser counts uses per shopper for codes issued to
	// named shoppers
	UsageLimitPerSpecifiedUser CouponUsageType = "LIMIT_PER_SPECIFIED_USER"
)

// Errors
var (
	// ErrCouponUsageLimitReached is returned when recording a use would exceed
	// the coupon's configured limit
	ErrCouponUsageLimitReached = errors.New("coupon usage limit reached")

	// ErrNegativeUseCount is returned when a negative use count is recorded
	ErrNegativeUseCount = errors.New("coupon use count cannot be negative")
)

// CouponConfig is the rule-level configuration shared by all coupon codes of a
// promotion
type CouponConfig struct {
	RuleID     int64
	UsageLimit int
	UsageType  CouponUsageType
	// MultiUsePerOrder permits a single order to consume several uses of one
	// coupon code
	MultiUsePerOrder bool
}

// Unlimited reports whether the configuration places no cap on uses
func (c *CouponConfig) Unlimited() bool {
	return c.UsageLimit <= 0
}

// Coupon is one redeemable code under a coupon configuration
type Coupon struct {
	Code   string
	Config *CouponConfig
}

// CouponUsage accumulates the uses of one coupon code, scoped to one shopper
// when the configuration counts per user
type CouponUsage struct {
	CouponCode string
	CustomerID string
	UseCount   int
	Suspended  bool
}

// RemainingUses returns how many uses are left under the given configuration,
// with ok false when the configuration is unlimited
func (u *CouponUsage) RemainingUses(config *CouponConfig) (int, bool) {
	if config == nil || config.Unlimited() {
		return 0, false
	}
	remaining := config.UsageLimit - u.UseCount
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// CanUse reports whether the coupon has uses left under the configuration
func (u *CouponUsage) CanUse(config *CouponConfig, requested int) bool {
	if u.Suspended {
		return false
	}
	remaining, limited := u.RemainingUses(config)
	if !limited {
		return true
	}
	return requested <= remaining
}

// RecordUse consumes uses of the coupon, failing when the configuration's
// limit would be exceeded
func (u *CouponUsage) RecordUse(config *CouponConfig, uses int) error {
	if uses < 0 {
		return ErrNegativeUseCount
	}
	if !u.CanUse(config, uses) {
		return ErrCouponUsageLimitReached
	}
	u.UseCount += uses
	return nil
}

// UseCountForRule returns the coupon uses an order consumes for a rule: the
// maximum over the rule's actions of the uses each action's discount record
// requires. Rules without recorded discounts consume one use.
func UseCountForRule(cart *Cart, coupon *Coupon, actions []RuleAction) int {
	useCount := 1
	for _, action := range actions {
		if uses := cart.CouponUsesRequired(action, coupon); uses > useCount {
			useCount = uses
		}
	}
	return useCount
}
