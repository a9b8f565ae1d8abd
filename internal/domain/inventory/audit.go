package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Audit records one processed inventory command for the audit trail
type Audit struct {
	ID              string             `bson:"_id" json:"id"`
	SKUCode         string             `bson:"skuCode" json:"skuCode"`
	WarehouseID     int64              `bson:"warehouseId" json:"warehouseId"`
	EventType       InventoryEventType `bson:"eventType" json:"eventType"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	Reason          string             `bson:"reason,omitempty" json:"reason,omitempty"`
	EventOriginator string             `bson:"eventOriginator,omitempty" json:"eventOriginator,omitempty"`
	OrderNumber     string             `bson:"orderNumber,omitempty" json:"orderNumber,omitempty"`
	Comment         string             `bson:"comment,omitempty" json:"comment,omitempty"`
	OccurredAt      time.Time          `bson:"occurredAt" json:"occurredAt"`
}

// NewAudit creates an audit entry for a command against the given key
func NewAudit(key Key, eventType InventoryEventType, quantity int) *Audit {
	return &Audit{
		ID:          uuid.NewString(),
		SKUCode:     key.SKUCode,
		WarehouseID: key.WarehouseID,
		EventType:   eventType,
		Quantity:    quantity,
		OccurredAt:  time.Now().UTC(),
	}
}

// WithReason sets the reason attribute
func (a *Audit) WithReason(reason string) *Audit {
	a.Reason = reason
	return a
}

// WithOriginator sets the event originator attribute
func (a *Audit) WithOriginator(originator string) *Audit {
	a.EventOriginator = originator
	return a
}

// WithOrderNumber sets the order number attribute
func (a *Audit) WithOrderNumber(orderNumber string) *Audit {
	a.OrderNumber = orderNumber
	return a
}

// WithComment sets the comment attribute
func (a *Audit) WithComment(comment string) *Audit {
	a.Comment = comment
	return a
}
