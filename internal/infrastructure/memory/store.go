package memory

import (
	"context"
	"sync"

	"github.com/commerce-platform/commerce-core/internal/domain/inventory"
)

// Store is an in-memory inventory.Store. It serializes all operations behind
// one mutex, which satisfies the per-(SKU, warehouse) locking contract for
// embedded and test use.
type Store struct {
	mu        sync.Mutex
	snapshots map[inventory.Key]inventory.Snapshot
	details   map[string]inventory.PreOrBackOrderDetails
	caps      inventory.CapabilitySet
}

// NewStore creates an empty in-memory store with the given capabilities
func NewStore(caps ...inventory.Capability) *Store {
	return &Store{
		snapshots: make(map[inventory.Key]inventory.Snapshot),
		details:   make(map[string]inventory.PreOrBackOrderDetails),
		caps:      inventory.NewCapabilitySet(caps...),
	}
}

// SeedSnapshot installs the stock counters for a key
func (s *Store) SeedSnapshot(key inventory.Key, onHand, allocated int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = inventory.Snapshot{Key: key, QuantityOnHand: onHand, AllocatedQuantity: allocated}
}

// SeedPreOrBackOrder installs the pre/back-order counter and limit for a SKU
func (s *Store) SeedPreOrBackOrder(skuCode string, quantity, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[skuCode] = inventory.PreOrBackOrderDetails{Quantity: quantity, Limit: limit}
}

// AvailableInStockQty implements inventory.StockReader
func (s *Store) AvailableInStockQty(ctx context.Context, key inventory.Key) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots[key].AvailableInStock(), nil
}

// PreOrBackOrderDetails implements inventory.StockReader
func (s *Store) PreOrBackOrderDetails(ctx context.Context, skuCode string) (inventory.PreOrBackOrderDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details[skuCode], nil
}

// Capabilities implements inventory.StockReader
func (s *Store) Capabilities(ctx context.Context) (inventory.CapabilitySet, error) {
	return s.caps, nil
}

// SetPreOrBackOrderedQuantity implements inventory.SkuCounterWriter
func (s *Store) SetPreOrBackOrderedQuantity(ctx context.Context, skuCode string, quantity int) error {
	if quantity < 0 {
		return inventory.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.details[skuCode]
	d.Quantity = quantity
	s.details[skuCode] = d
	return nil
}

// AdjustQuantityOnHand implements inventory.StockWriter
func (s *Store) AdjustQuantityOnHand(ctx context.Context, key inventory.Key, delta int) (inventory.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.snapshots[key]
	snapshot.Key = key
	snapshot.QuantityOnHand += delta
	s.snapshots[key] = snapshot
	return snapshot, nil
}

// AdjustAllocatedQuantity implements inventory.StockWriter
func (s *Store) AdjustAllocatedQuantity(ctx context.Context, key inventory.Key, delta int) (inventory.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.snapshots[key]
	snapshot.Key = key
	snapshot.AllocatedQuantity += delta
	s.snapshots[key] = snapshot
	return snapshot, nil
}

// Snapshot implements inventory.StockWriter. A missing record reads as a zero
// snapshot for the key, matching the reader contract.
func (s *Store) Snapshot(ctx context.Context, key inventory.Key) (inventory.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[key]
	if !ok {
		return inventory.Snapshot{Key: key}, nil
	}
	return snapshot, nil
}

// AuditRepository is an in-memory inventory.AuditRepository
type AuditRepository struct {
	mu     sync.Mutex
	audits []*inventory.Audit
}

// NewAuditRepository creates an empty in-memory audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Save implements inventory.AuditRepository
func (r *AuditRepository) Save(ctx context.Context, audit *inventory.Audit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, audit)
	return nil
}

// All returns the saved audits in insertion order
func (r *AuditRepository) All() []*inventory.Audit {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*inventory.Audit, len(r.audits))
	copy(result, r.audits)
	return result
}
