package promotion

import "errors"

// Errors
var (
	// ErrNilDiscountAmount is returned when a required discount amount is absent
	ErrNilDiscountAmount = errors.New("discount amount is required")

	// ErrNegativeDiscountAmount is returned when a negative discount amount is
	// passed where the caller must normalize first
	ErrNegativeDiscountAmount = errors.New("discount amount cannot be negative")

	// ErrShoppingItemRequired is returned when an item-level operation is
	// invoked without a shopping item
	ErrShoppingItemRequired = errors.New("shopping item is required")
)
