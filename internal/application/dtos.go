package application

import (
	"github.com/commerce-platform/commerce-core/internal/domain/inventory"
)

// InventoryDTO is the read model of one SKU's stock in a warehouse
type InventoryDTO struct {
	SKUCode           string `json:"skuCode"`
	WarehouseID       int64  `json:"warehouseId"`
	QuantityOnHand    int    `json:"quantityOnHand"`
	AllocatedQuantity int    `json:"allocatedQuantity"`
	AvailableInStock  int    `json:"availableInStock"`
}

// AllocationResultDTO reports the outcome of one processed command
type AllocationResultDTO struct {
	Quantity                          int           `json:"quantity"`
	InventoryQuantity                 *int          `json:"inventoryQuantity,omitempty"`
	QuantityAllocatedOnPreOrBackOrder int           `json:"quantityAllocatedOnPreOrBackOrder"`
	Inventory                         *InventoryDTO `json:"inventory,omitempty"`
}

// ToInventoryDTO maps a domain snapshot to its DTO
func ToInventoryDTO(s inventory.Snapshot) *InventoryDTO {
	return &InventoryDTO{
		SKUCode:           s.Key.SKUCode,
		WarehouseID:       s.Key.WarehouseID,
		QuantityOnHand:    s.QuantityOnHand,
		AllocatedQuantity: s.AllocatedQuantity,
		AvailableInStock:  s.AvailableInStock(),
	}
}

// ToAllocationResultDTO maps a domain allocation result to its DTO
func ToAllocationResultDTO(r *inventory.AllocationResult) *AllocationResultDTO {
	dto := &AllocationResultDTO{
		Quantity:                          r.Quantity,
		InventoryQuantity:                 r.InventoryQuantity,
		QuantityAllocatedOnPreOrBackOrder: r.QuantityAllocatedOnPreOrBackOrder,
	}
	if r.InventoryAfter != nil {
		dto.Inventory = ToInventoryDTO(*r.InventoryAfter)
	}
	return dto
}
