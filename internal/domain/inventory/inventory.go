package inventory

// Key identifies one SKU's stock in one warehouse
type Key struct {
	SKUCode     string `bson:"skuCode" json:"skuCode"`
	WarehouseID int64  `bson:"warehouseId" json:"warehouseId"`
}

// Snapshot is a point-in-time view of one SKU's stock counters in a warehouse
type Snapshot struct {
	Key               Key `bson:"key" json:"key"`
	QuantityOnHand    int `bson:"quantityOnHand" json:"quantityOnHand"`
	AllocatedQuantity int `bson:"allocatedQuantity" json:"allocatedQuantity"`
}

// AvailableInStock returns the quantity physically on hand and not yet allocated
func (s Snapshot) AvailableInStock() int {
	return s.QuantityOnHand - s.AllocatedQuantity
}

// PreOrBackOrderDetails carries a SKU's running pre/back-order counter and its
// order limit. A limit of zero or below means unlimited.
type PreOrBackOrderDetails struct {
	Quantity int `bson:"quantity" json:"quantity"`
	Limit    int `bson:"limit" json:"limit"`
}

// HasLimit reports whether an order limit is configured
func (d PreOrBackOrderDetails) HasLimit() bool {
	return d.Limit > 0
}

// Capability identifies an optional feature of the backing inventory store
type Capability string

// CapabilityPreOrBackOrderLimit indicates the store enforces per-SKU order limits
const CapabilityPreOrBackOrderLimit Capability = "PRE_OR_BACK_ORDER_LIMIT"

// CapabilitySet is the set of capabilities a store supports
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Supports reports whether the capability is present
func (s CapabilitySet) Supports(c Capability) bool {
	_, ok := s[c]
	return ok
}
