package inventory

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// StockAllocatedEvent is published when stock is allocated to an order
type StockAllocatedEvent struct {
	SKUCode                string    `json:"skuCode"`
	WarehouseID            int64     `json:"warehouseId"`
	Quantity               int       `json:"quantity"`
	OnHandQuantity         int       `json:"onHandQuantity"`
	PreOrBackOrderQuantity int       `json:"preOrBackOrderQuantity"`
	AllocatedAt            time.Time `json:"allocatedAt"`
}

func (e *StockAllocatedEvent) EventType() string     { return "commerce.inventory.stock-allocated" }
func (e *StockAllocatedEvent) OccurredAt() time.Time { return e.AllocatedAt }

// StockDeallocatedEvent is published when allocated stock is returned
type StockDeallocatedEvent struct {
	SKUCode       string    `json:"skuCode"`
	WarehouseID   int64     `json:"warehouseId"`
	Quantity      int       `json:"quantity"`
	DeallocatedAt time.Time `json:"deallocatedAt"`
}

func (e *StockDeallocatedEvent) EventType() string     { return "commerce.inventory.stock-deallocated" }
func (e *StockDeallocatedEvent) OccurredAt() time.Time { return e.DeallocatedAt }

// StockReceivedEvent is published when an adjustment adds stock
type StockReceivedEvent struct {
	SKUCode     string    `json:"skuCode"`
	WarehouseID int64     `json:"warehouseId"`
	Quantity    int       `json:"quantity"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

func (e *StockReceivedEvent) EventType() string     { return "commerce.inventory.stock-received" }
func (e *StockReceivedEvent) OccurredAt() time.Time { return e.ReceivedAt }

// StockAvailabilityChangedEvent is published when an in-stock-only product
// crosses the out-of-stock boundary during a command
type StockAvailabilityChangedEvent struct {
	SKUCode     string    `json:"skuCode"`
	WarehouseID int64     `json:"warehouseId"`
	InStock     bool      `json:"inStock"`
	ChangedAt   time.Time `json:"changedAt"`
}

func (e *StockAvailabilityChangedEvent) EventType() string {
	return "commerce.inventory.availability-changed"
}
func (e *StockAvailabilityChangedEvent) OccurredAt() time.Time { return e.ChangedAt }
