package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/commerce-platform/commerce-core/internal/domain/inventory"
	"github.com/commerce-platform/commerce-core/pkg/logging"
	"github.com/commerce-platform/commerce-core/pkg/metrics"
)

// InventoryStore is the MongoDB implementation of inventory.Store. Stock
// counters live in "inventory" keyed by (skuCode, warehouseId); pre/back-order
// counters live in "sku_counters" keyed by skuCode.
//
// Counter adjustments use atomic $inc through findOneAndUpdate, so concurrent
// adjustments to one key never lose updates. Read-check-write sequences above
// this store (the allocate gate and its counter write) still require the
// caller's per-key serialization.
type InventoryStore struct {
	inventory   *mongo.Collection
	skuCounters *mongo.Collection
	breaker     *Breaker
	caps        inventory.CapabilitySet
	logger      *logging.Logger
}

type inventoryDoc struct {
	SKUCode           string `bson:"skuCode"`
	WarehouseID       int64  `bson:"warehouseId"`
	QuantityOnHand    int    `bson:"quantityOnHand"`
	AllocatedQuantity int    `bson:"allocatedQuantity"`
}

type skuCounterDoc struct {
	SKUCode  string `bson:"_id"`
	Quantity int    `bson:"quantity"`
	Limit    int    `bson:"limit"`
}

// NewInventoryStore creates an InventoryStore with the pre/back-order limit
// capability enabled
func NewInventoryStore(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *InventoryStore {
	store := &InventoryStore{
		inventory:   db.Collection("inventory"),
		skuCounters: db.Collection("sku_counters"),
		breaker:     NewBreaker("inventory_store", m, logger),
		caps:        inventory.NewCapabilitySet(inventory.CapabilityPreOrBackOrderLimit),
		logger:      logger,
	}
	store.ensureIndexes(context.Background())
	return store
}

func (s *InventoryStore) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "skuCode", Value: 1}, {Key: "warehouseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := s.inventory.Indexes().CreateMany(ctx, indexes); err != nil {
		s.logger.Warn("Failed to ensure inventory indexes", "error", err)
	}
}

// AvailableInStockQty implements inventory.StockReader
func (s *InventoryStore) AvailableInStockQty(ctx context.Context, key inventory.Key) (int, error) {
	snapshot, err := s.Snapshot(ctx, key)
	if err != nil {
		return 0, err
	}
	return snapshot.AvailableInStock(), nil
}

// PreOrBackOrderDetails implements inventory.StockReader. A missing counter
// document reads as a zero counter with no limit.
func (s *InventoryStore) PreOrBackOrderDetails(ctx context.Context, skuCode string) (inventory.PreOrBackOrderDetails, error) {
	result, err := s.breaker.Execute("sku_counter_read", func() (interface{}, error) {
		var doc skuCounterDoc
		err := s.skuCounters.FindOne(ctx, bson.M{"_id": skuCode}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return skuCounterDoc{SKUCode: skuCode}, nil
		}
		return doc, err
	})
	if err != nil {
		return inventory.PreOrBackOrderDetails{}, fmt.Errorf("failed to read sku counter: %w", err)
	}

	doc := result.(skuCounterDoc)
	return inventory.PreOrBackOrderDetails{Quantity: doc.Quantity, Limit: doc.Limit}, nil
}

// Capabilities implements inventory.StockReader
func (s *InventoryStore) Capabilities(ctx context.Context) (inventory.CapabilitySet, error) {
	return s.caps, nil
}

// SetPreOrBackOrderedQuantity implements inventory.SkuCounterWriter
func (s *InventoryStore) SetPreOrBackOrderedQuantity(ctx context.Context, skuCode string, quantity int) error {
	if quantity < 0 {
		return inventory.ErrInvalidQuantity
	}

	_, err := s.breaker.Execute("sku_counter_write", func() (interface{}, error) {
		opts := options.Update().SetUpsert(true)
		return s.skuCounters.UpdateOne(ctx,
			bson.M{"_id": skuCode},
			bson.M{"$set": bson.M{"quantity": quantity}},
			opts)
	})
	if err != nil {
		return fmt.Errorf("failed to set sku counter: %w", err)
	}
	return nil
}

// SetOrderLimit configures the pre/back-order limit for a SKU. A limit of zero
// or below means unlimited.
func (s *InventoryStore) SetOrderLimit(ctx context.Context, skuCode string, limit int) error {
	_, err := s.breaker.Execute("sku_counter_write", func() (interface{}, error) {
		opts := options.Update().SetUpsert(true)
		return s.skuCounters.UpdateOne(ctx,
			bson.M{"_id": skuCode},
			bson.M{"$set": bson.M{"limit": limit}},
			opts)
	})
	if err != nil {
		return fmt.Errorf("failed to set order limit: %w", err)
	}
	return nil
}

// AdjustQuantityOnHand implements inventory.StockWriter
func (s *InventoryStore) AdjustQuantityOnHand(ctx context.Context, key inventory.Key, delta int) (inventory.Snapshot, error) {
	return s.adjust(ctx, key, bson.M{"$inc": bson.M{"quantityOnHand": delta}})
}

// AdjustAllocatedQuantity implements inventory.StockWriter
func (s *InventoryStore) AdjustAllocatedQuantity(ctx context.Context, key inventory.Key, delta int) (inventory.Snapshot, error) {
	return s.adjust(ctx, key, bson.M{"$inc": bson.M{"allocatedQuantity": delta}})
}

func (s *InventoryStore) adjust(ctx context.Context, key inventory.Key, update bson.M) (inventory.Snapshot, error) {
	result, err := s.breaker.Execute("inventory_adjust", func() (interface{}, error) {
		opts := options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After)

		var doc inventoryDoc
		err := s.inventory.FindOneAndUpdate(ctx, s.filter(key), update, opts).Decode(&doc)
		return doc, err
	})
	if err != nil {
		return inventory.Snapshot{}, fmt.Errorf("failed to adjust inventory counters: %w", err)
	}
	return toSnapshot(result.(inventoryDoc)), nil
}

// Snapshot implements inventory.StockWriter. A missing record reads as a zero
// snapshot for the key.
func (s *InventoryStore) Snapshot(ctx context.Context, key inventory.Key) (inventory.Snapshot, error) {
	result, err := s.breaker.Execute("inventory_read", func() (interface{}, error) {
		var doc inventoryDoc
		err := s.inventory.FindOne(ctx, s.filter(key)).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return inventoryDoc{SKUCode: key.SKUCode, WarehouseID: key.WarehouseID}, nil
		}
		return doc, err
	})
	if err != nil {
		return inventory.Snapshot{}, fmt.Errorf("failed to read inventory: %w", err)
	}
	return toSnapshot(result.(inventoryDoc)), nil
}

func (s *InventoryStore) filter(key inventory.Key) bson.M {
	return bson.M{"skuCode": key.SKUCode, "warehouseId": key.WarehouseID}
}

func toSnapshot(doc inventoryDoc) inventory.Snapshot {
	return inventory.Snapshot{
		Key:               inventory.Key{SKUCode: doc.SKUCode, WarehouseID: doc.WarehouseID},
		QuantityOnHand:    doc.QuantityOnHand,
		AllocatedQuantity: doc.AllocatedQuantity,
	}
}
