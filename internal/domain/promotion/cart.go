package promotion

import (
	"github.com/shopspring/decimal"

	"github.com/commerce-platform/commerce-core/internal/domain/pricing"
)

// ShoppingItem is one cart line: a priced SKU and a quantity
type ShoppingItem struct {
	GUID     string
	SKUCode  string
	Quantity int
	Price    *pricing.Price
}

// UnitPrice resolves the pre-promotion unit price for the item's quantity
func (i *ShoppingItem) UnitPrice() (decimal.Decimal, bool) {
	if i.Price == nil {
		return decimal.Decimal{}, false
	}
	return i.Price.PrePromotionPrice(i.Quantity)
}

// LineTotal returns the pre-promotion extended price for the line
func (i *ShoppingItem) LineTotal() decimal.Decimal {
	unit, ok := i.UnitPrice()
	if !ok {
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ShippingPricing tracks the list price and the current winning discount for
// one shipping option
type ShippingPricing struct {
	OptionCode     string
	ListPrice      *decimal.Decimal
	DiscountAmount *decimal.Decimal
}

// Cart owns the promotion record container for one shopping session. It is
// mutated in place by a single logical request and requires external
// serialization across requests.
type Cart struct {
	items                      []*ShoppingItem
	container                  *PromotionRecordContainer
	subtotalDiscount           decimal.Decimal
	shippingPricing            map[string]*ShippingPricing
	selectedShippingOptionCode string
}

// NewCart creates an empty cart with its own promotion record container
func NewCart() *Cart {
	cart := &Cart{
		subtotalDiscount: decimal.Zero,
		shippingPricing:  make(map[string]*ShippingPricing),
	}
	cart.container = newPromotionRecordContainer(cart)
	return cart
}

// PromotionRecordContainer returns the cart's discount ledger
func (c *Cart) PromotionRecordContainer() *PromotionRecordContainer {
	return c.container
}

// AddItem appends a line to the cart
func (c *Cart) AddItem(item *ShoppingItem) {
	c.items = append(c.items, item)
}

// Items returns the cart lines
func (c *Cart) Items() []*ShoppingItem {
	return c.items
}

// ItemByGUID returns the cart line with the given GUID
func (c *Cart) ItemByGUID(guid string) (*ShoppingItem, bool) {
	for _, item := range c.items {
		if item.GUID == guid {
			return item, true
		}
	}
	return nil, false
}

// Subtotal returns the pre-promotion sum of all line totals, scaled to two
// decimal places
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal.Round(2)
}

// SubtotalDiscount returns the winning subtotal discount
func (c *Cart) SubtotalDiscount() decimal.Decimal {
	return c.subtotalDiscount
}

// SetSubtotalDiscount applies a discount to the cart subtotal on behalf of a
// promotion rule action. The amount is required and must not be negative. The
// stored discount is capped at the cart subtotal, and a discount smaller than
// the one already won is recorded superseded without changing the cart.
func (c *Cart) SetSubtotalDiscount(amount *decimal.Decimal, ruleID, actionID int64) error {
	if amount == nil {
		return ErrNilDiscountAmount
	}
	if amount.IsNegative() {
		return ErrNegativeDiscountAmount
	}

	if c.subtotalDiscount.GreaterThan(*amount) {
		record := NewSubtotalDiscountRecord(ruleID, actionID, *amount)
		record.Superseded = true
		c.container.AddDiscountRecord(record)
		return nil
	}

	capped := *amount
	if subtotal := c.Subtotal(); capped.GreaterThan(subtotal) {
		capped = subtotal
	}

	c.container.AddDiscountRecord(NewSubtotalDiscountRecord(ruleID, actionID, capped))
	c.subtotalDiscount = capped
	return nil
}

// RuleApplied records that the promotion engine discounted a cart line.
// Repeated applications of the same rule action to the same line accumulate
// the amount and the quantity applied to: they are partial applications of one
// discount, not competing alternatives.
func (c *Cart) RuleApplied(ruleID, actionID int64, item *ShoppingItem, amount decimal.Decimal, quantityAppliedTo int) error {
	if item == nil {
		return ErrShoppingItemRequired
	}

	existing, ok := c.container.DiscountRecord(ruleID, actionID)
	if ok && existing.Kind == KindItem && existing.ShoppingItemGUID == item.GUID {
		updated := NewItemDiscountRecord(ruleID, actionID, item.GUID,
			existing.Amount.Add(amount), existing.QuantityAppliedTo+quantityAppliedTo)
		c.container.AddDiscountRecord(updated)
		return nil
	}

	c.container.AddDiscountRecord(NewItemDiscountRecord(ruleID, actionID, item.GUID, amount, quantityAppliedTo))
	return nil
}

// SetShippingDiscountIfLower applies a discount to a shipping option when it
// beats the discount currently held for that option. The name is historical;
// the larger discount wins. Losing applications are still recorded for audit.
func (c *Cart) SetShippingDiscountIfLower(shippingOptionCode string, ruleID, actionID int64, amount decimal.Decimal) {
	record := NewShippingDiscountRecord(ruleID, actionID, shippingOptionCode, amount)

	if existing, ok := c.container.DiscountRecord(ruleID, actionID); ok {
		if existing.Kind == KindShipping && existing.ShippingOptionCode == shippingOptionCode && existing.Amount.Equal(amount) {
			return
		}
	}

	pricing := c.findShippingPricing(shippingOptionCode)
	if pricing.DiscountAmount == nil || pricing.DiscountAmount.LessThan(amount) {
		discounted := amount
		pricing.DiscountAmount = &discounted
	}

	c.container.AddDiscountRecord(record)
}

// SetShippingListPrice stores the pre-promotion price of a shipping option
func (c *Cart) SetShippingListPrice(shippingOptionCode string, listPrice decimal.Decimal) {
	c.findShippingPricing(shippingOptionCode).ListPrice = &listPrice
}

// ShippingListPrice returns the stored list price for a shipping option
func (c *Cart) ShippingListPrice(shippingOptionCode string) (decimal.Decimal, bool) {
	pricing, ok := c.shippingPricing[shippingOptionCode]
	if !ok || pricing.ListPrice == nil {
		return decimal.Decimal{}, false
	}
	return *pricing.ListPrice, true
}

// ShippingDiscount returns the winning discount for a shipping option
func (c *Cart) ShippingDiscount(shippingOptionCode string) (decimal.Decimal, bool) {
	pricing, ok := c.shippingPricing[shippingOptionCode]
	if !ok || pricing.DiscountAmount == nil {
		return decimal.Decimal{}, false
	}
	return *pricing.DiscountAmount, true
}

// SelectShippingOption records the cart's currently selected shipping option
func (c *Cart) SelectShippingOption(shippingOptionCode string) {
	c.selectedShippingOptionCode = shippingOptionCode
}

// SelectedShippingOptionCode returns the currently selected shipping option
func (c *Cart) SelectedShippingOptionCode() string {
	return c.selectedShippingOptionCode
}

// CouponUsesRequired computes how many uses of the applied coupon the given
// rule action consumes, based on the ledger's record for that action. Without
// a record, one use is consumed. A coupon whose configuration does not permit
// multiple uses per order consumes at most one use regardless of the record.
func (c *Cart) CouponUsesRequired(action RuleAction, appliedCoupon *Coupon) int {
	record, ok := c.container.DiscountRecord(action.RuleID, action.ActionID)
	if !ok {
		return 1
	}

	uses := record.CouponUsesRequired(action)
	if appliedCoupon != nil && appliedCoupon.Config != nil && !appliedCoupon.Config.MultiUsePerOrder {
		if uses > 1 {
			return 1
		}
	}
	return uses
}

// ClearItems removes all cart lines and the discounts recorded against them
func (c *Cart) ClearItems() {
	c.items = nil
	c.subtotalDiscount = decimal.Zero
	c.container.Clear()
}

// Clear resets the cart to its empty state
func (c *Cart) Clear() {
	c.ClearItems()
	c.shippingPricing = make(map[string]*ShippingPricing)
	c.selectedShippingOptionCode = ""
}

func (c *Cart) findShippingPricing(shippingOptionCode string) *ShippingPricing {
	pricing, ok := c.shippingPricing[shippingOptionCode]
	if !ok {
		pricing = &ShippingPricing{OptionCode: shippingOptionCode}
		c.shippingPricing[shippingOptionCode] = pricing
	}
	return pricing
}
