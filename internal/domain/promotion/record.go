package promotion

import "github.com/shopspring/decimal"

// RecordKind identifies the subject a discount record applies to
type RecordKind string

const (
	// KindItem discounts one cart line
	KindItem RecordKind = "ITEM"
	// KindShipping discounts one shipping option
	KindShipping RecordKind = "SHIPPING"
	// KindSubtotal discounts the cart subtotal
	KindSubtotal RecordKind = "SUBTOTAL"
	// KindCatalogItem discounts a catalog price outside any cart
	KindCatalogItem RecordKind = "CATALOG_ITEM"
)

// RuleAction identifies one action of a promotion rule. NumItems is the
// action's per-coupon-use item count parameter, where applicable.
type RuleAction struct {
	RuleID   int64
	ActionID int64
	NumItems int
}

// DiscountRecord is one promotion rule+action's effect on one pricing subject.
// Records are never deleted from the ledger, only marked superseded when a
// better discount wins the same subject.
type DiscountRecord struct {
	RuleID     int64
	ActionID   int64
	Amount     decimal.Decimal
	Superseded bool
	Kind       RecordKind

	// ShoppingItemGUID and QuantityAppliedTo are set for KindItem records
	ShoppingItemGUID  string
	QuantityAppliedTo int

	// ShippingOptionCode is set for KindShipping records
	ShippingOptionCode string
}

// NewItemDiscountRecord creates a discount record for one cart line
func NewItemDiscountRecord(ruleID, actionID int64, itemGUID string, amount decimal.Decimal, quantityAppliedTo int) *DiscountRecord {
	return &DiscountRecord{
		RuleID:            ruleID,
		ActionID:          actionID,
		Amount:            amount,
		Kind:              KindItem,
		ShoppingItemGUID:  itemGUID,
		QuantityAppliedTo: quantityAppliedTo,
	}
}

// NewShippingDiscountRecord creates a discount record for one shipping option
func NewShippingDiscountRecord(ruleID, actionID int64, shippingOptionCode string, amount decimal.Decimal) *DiscountRecord {
	return &DiscountRecord{
		RuleID:             ruleID,
		ActionID:           actionID,
		Amount:             amount,
		Kind:               KindShipping,
		ShippingOptionCode: shippingOptionCode,
	}
}

// NewSubtotalDiscountRecord creates a discount record for the cart subtotal
func NewSubtotalDiscountRecord(ruleID, actionID int64, amount decimal.Decimal) *DiscountRecord {
	return &DiscountRecord{
		RuleID:   ruleID,
		ActionID: actionID,
		Amount:   amount,
		Kind:     KindSubtotal,
	}
}

// NewCatalogItemDiscountRecord creates a discount record for a catalog price
func NewCatalogItemDiscountRecord(ruleID, actionID int64, amount decimal.Decimal) *DiscountRecord {
	return &DiscountRecord{
		RuleID:   ruleID,
		ActionID: actionID,
		Amount:   amount,
		Kind:     KindCatalogItem,
	}
}

// subjectKey returns the identity of the discounted subject within its kind
func (r *DiscountRecord) subjectKey() string {
	switch r.Kind {
	case KindItem:
		return r.ShoppingItemGUID
	case KindShipping:
		return r.ShippingOptionCode
	default:
		return ""
	}
}

// SameSubject reports whether both records discount the same subject
func (r *DiscountRecord) SameSubject(other *DiscountRecord) bool {
	return r.Kind == other.Kind && r.subjectKey() == other.subjectKey()
}

// CouponUsesRequired computes how many coupon uses this record consumes for
// the given action. A free-item grant consumes ceil(freeQty / perUseCount)
// uses: a partial grant still consumes one full use. Records that do not grant
// items consume a single use.
func (r *DiscountRecord) CouponUsesRequired(action RuleAction) int {
	if r.Kind != KindItem || action.NumItems <= 0 {
		return 1
	}
	uses := r.QuantityAppliedTo / action.NumItems
	if r.QuantityAppliedTo%action.NumItems != 0 {
		uses++
	}
	if uses < 1 {
		uses = 1
	}
	return uses
}
