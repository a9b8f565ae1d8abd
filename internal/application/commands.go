package application

import (
	"github.com/commerce-platform/commerce-core/internal/domain/inventory"
)

// ProcessInventoryCommand requests one stock mutation for a SKU in a warehouse
type ProcessInventoryCommand struct {
	SKUCode     string
	WarehouseID int64
	EventType   inventory.InventoryEventType
	Criteria    inventory.AvailabilityCriteria
	Quantity    int

	// Audit attributes
	Reason          string
	EventOriginator string
	OrderNumber     string
	Comment         string
}

// Key returns the inventory key the command targets
func (c ProcessInventoryCommand) Key() inventory.Key {
	return inventory.Key{SKUCode: c.SKUCode, WarehouseID: c.WarehouseID}
}

// CheckAvailabilityQuery asks whether a quantity is fulfillable for a purchase
type CheckAvailabilityQuery struct {
	SKUCode     string
	WarehouseID int64
	Criteria    inventory.AvailabilityCriteria
	Quantity    int
}

// GetInventoryQuery requests the current stock snapshot for a key
type GetInventoryQuery struct {
	SKUCode     string
	WarehouseID int64
}
