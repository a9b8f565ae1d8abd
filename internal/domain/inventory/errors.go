package inventory

import "errors"

// Errors
var (
	// ErrInvalidQuantity is returned when a negative quantity reaches an
	// operation that requires a non-negative one. This is a caller bug, not a
	// business condition.
	ErrInvalidQuantity = errors.New("quantity cannot be negative")

	// ErrInsufficientInventory is returned when a requested quantity cannot be
	// fulfilled under the product's availability criteria.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrOrderLimitReached is returned when a pre/back-order allocation would
	// exceed the SKU's order limit. Unwraps to ErrInsufficientInventory.
	ErrOrderLimitReached = orderLimitError{}

	// ErrSKUNotFound is returned when the backing store has no record for a SKU
	ErrSKUNotFound = errors.New("sku not found")

	// ErrUnknownEventType is returned when a command carries an event type the
	// processor does not recognise
	ErrUnknownEventType = errors.New("unknown inventory event type")
)

type orderLimitError struct{}

func (orderLimitError) Error() string { return "insufficient inventory: order limit reached" }

func (orderLimitError) Unwrap() error { return ErrInsufficientInventory }
