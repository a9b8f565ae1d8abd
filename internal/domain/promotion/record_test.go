package promotion

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDiscountRecord_CouponUsesRequired(t *testing.T) {
	tests := []struct {
		name              string
		kind              RecordKind
		quantityAppliedTo int
		numItems          int
		want              int
	}{
		{"exact multiple", KindItem, 6, 3, 2},
		{"partial grant consumes a full use", KindItem, 7, 3, 3},
		{"fewer items than one use", KindItem, 1, 3, 1},
		{"equal to one use", KindItem, 3, 3, 1},
		{"zero quantity still consumes one use", KindItem, 0, 3, 1},
		{"num items of one", KindItem, 5, 1, 5},
		{"zero num items defaults to one use", KindItem, 5, 0, 1},
		{"subtotal record consumes one use", KindSubtotal, 6, 3, 1},
		{"shipping record consumes one use", KindShipping, 6, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &DiscountRecord{
				RuleID:            1,
				ActionID:          10,
				Amount:            decimal.NewFromInt(5),
				Kind:              tt.kind,
				QuantityAppliedTo: tt.quantityAppliedTo,
			}
			action := RuleAction{RuleID: 1, ActionID: 10, NumItems: tt.numItems}

			if got := record.CouponUsesRequired(action); got != tt.want {
				t.Errorf("CouponUsesRequired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscountRecord_SameSubject(t *testing.T) {
	tests := []struct {
		name string
		a    *DiscountRecord
		b    *DiscountRecord
		want bool
	}{
		{
			"item records on the same line",
			NewItemDiscountRecord(1, 10, "item-a", decimal.NewFromInt(5), 1),
			NewItemDiscountRecord(2, 20, "item-a", decimal.NewFromInt(7), 1),
			true,
		},
		{
			"item records on different lines",
			NewItemDiscountRecord(1, 10, "item-a", decimal.NewFromInt(5), 1),
			NewItemDiscountRecord(1, 10, "item-b", decimal.NewFromInt(5), 1),
			false,
		},
		{
			"shipping records on the same option",
			NewShippingDiscountRecord(1, 10, "express", decimal.NewFromInt(5)),
			NewShippingDiscountRecord(2, 20, "express", decimal.NewFromInt(7)),
			true,
		},
		{
			"shipping records on different options",
			NewShippingDiscountRecord(1, 10, "express", decimal.NewFromInt(5)),
			NewShippingDiscountRecord(1, 10, "standard", decimal.NewFromInt(5)),
			false,
		},
		{
			"subtotal records always share the subject",
			NewSubtotalDiscountRecord(1, 10, decimal.NewFromInt(5)),
			NewSubtotalDiscountRecord(2, 20, decimal.NewFromInt(7)),
			true,
		},
		{
			"different kinds never share the subject",
			NewItemDiscountRecord(1, 10, "item-a", decimal.NewFromInt(5), 1),
			NewSubtotalDiscountRecord(1, 10, decimal.NewFromInt(5)),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.SameSubject(tt.b); got != tt.want {
				t.Errorf("SameSubject() = %v, want %v", got, tt.want)
			}
		})
	}
}
