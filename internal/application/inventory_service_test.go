package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerce-platform/commerce-core/internal/domain/inventory"
	apperrors "github.com/commerce-platform/commerce-core/pkg/errors"
	"github.com/commerce-platform/commerce-core/pkg/logging"
	"github.com/commerce-platform/commerce-core/pkg/metrics"
)

// fakeStore is an in-memory inventory.Store for service tests
type fakeStore struct {
	snapshots map[inventory.Key]inventory.Snapshot
	details   map[string]inventory.PreOrBackOrderDetails
	caps      inventory.CapabilitySet
	failWith  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		snapshots: make(map[inventory.Key]inventory.Snapshot),
		details:   make(map[string]inventory.PreOrBackOrderDetails),
		caps:      inventory.NewCapabilitySet(inventory.CapabilityPreOrBackOrderLimit),
	}
}

func (f *fakeStore) AvailableInStockQty(ctx context.Context, key inventory.Key) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	return f.snapshots[key].AvailableInStock(), nil
}

func (f *fakeStore) PreOrBackOrderDetails(ctx context.Context, skuCode string) (inventory.PreOrBackOrderDetails, error) {
	if f.failWith != nil {
		return inventory.PreOrBackOrderDetails{}, f.failWith
	}
	return f.details[skuCode], nil
}

func (f *fakeStore) Capabilities(ctx context.Context) (inventory.CapabilitySet, error) {
	return f.caps, nil
}

func (f *fakeStore) SetPreOrBackOrderedQuantity(ctx context.Context, skuCode string, quantity int) error {
	if f.failWith != nil {
		return f.failWith
	}
	d := f.details[skuCode]
	d.Quantity = quantity
	f.details[skuCode] = d
	return nil
}

func (f *fakeStore) AdjustQuantityOnHand(ctx context.Context, key inventory.Key, delta int) (inventory.Snapshot, error) {
	if f.failWith != nil {
		return inventory.Snapshot{}, f.failWith
	}
	s := f.snapshots[key]
	s.Key = key
	s.QuantityOnHand += delta
	f.snapshots[key] = s
	return s, nil
}

func (f *fakeStore) AdjustAllocatedQuantity(ctx context.Context, key inventory.Key, delta int) (inventory.Snapshot, error) {
	if f.failWith != nil {
		return inventory.Snapshot{}, f.failWith
	}
	s := f.snapshots[key]
	s.Key = key
	s.AllocatedQuantity += delta
	f.snapshots[key] = s
	return s, nil
}

func (f *fakeStore) Snapshot(ctx context.Context, key inventory.Key) (inventory.Snapshot, error) {
	if f.failWith != nil {
		return inventory.Snapshot{}, f.failWith
	}
	s, ok := f.snapshots[key]
	if !ok {
		return inventory.Snapshot{Key: key}, nil
	}
	return s, nil
}

func (f *fakeStore) seed(key inventory.Key, onHand, allocated int) {
	f.snapshots[key] = inventory.Snapshot{Key: key, QuantityOnHand: onHand, AllocatedQuantity: allocated}
}

type fakeAuditRepo struct {
	saved   []*inventory.Audit
	failErr error
}

func (f *fakeAuditRepo) Save(ctx context.Context, audit *inventory.Audit) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.saved = append(f.saved, audit)
	return nil
}

type fakePublisher struct {
	published []inventory.DomainEvent
	failErr   error
}

func (f *fakePublisher) Publish(ctx context.Context, event inventory.DomainEvent) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakePublisher) PublishAll(ctx context.Context, events []inventory.DomainEvent) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.published = append(f.published, events...)
	return nil
}

func (f *fakePublisher) eventTypes() []string {
	types := make([]string, 0, len(f.published))
	for _, e := range f.published {
		types = append(types, e.EventType())
	}
	return types
}

func newTestService(store *fakeStore, audits *fakeAuditRepo, publisher *fakePublisher) *InventoryApplicationService {
	return NewInventoryApplicationService(
		store, audits, publisher,
		metrics.New(metrics.DefaultConfig("test")),
		logging.NewNop(),
	)
}

func TestInventoryApplicationService_ProcessCommand_Allocate(t *testing.T) {
	key := inventory.Key{SKUCode: "SKU-001", WarehouseID: 1}

	t.Run("allocates fully from stock", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 10, 0)
		audits := &fakeAuditRepo{}
		publisher := &fakePublisher{}
		svc := newTestService(store, audits, publisher)

		result, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAllocate,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  4,
		})
		require.NoError(t, err)

		require.NotNil(t, result.InventoryQuantity)
		assert.Equal(t, 4, *result.InventoryQuantity)
		assert.Equal(t, 0, result.QuantityAllocatedOnPreOrBackOrder)
		require.NotNil(t, result.Inventory)
		assert.Equal(t, 4, result.Inventory.AllocatedQuantity)
		assert.Equal(t, 6, result.Inventory.AvailableInStock)

		require.Len(t, audits.saved, 1)
		assert.Equal(t, inventory.EventStockAllocate, audits.saved[0].EventType)
		assert.Contains(t, publisher.eventTypes(), "commerce.inventory.stock-allocated")
	})

	t.Run("splits between stock and back order", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 3, 0)
		store.details["SKU-001"] = inventory.PreOrBackOrderDetails{Quantity: 0, Limit: 20}
		svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

		result, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAllocate,
			Criteria:  inventory.AvailableForBackOrder,
			Quantity:  10,
		})
		require.NoError(t, err)

		require.NotNil(t, result.InventoryQuantity)
		assert.Equal(t, 3, *result.InventoryQuantity)
		assert.Equal(t, 7, result.QuantityAllocatedOnPreOrBackOrder)
		assert.Equal(t, 7, store.details["SKU-001"].Quantity)
	})

	t.Run("rejects when stock is insufficient", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 3, 0)
		audits := &fakeAuditRepo{}
		publisher := &fakePublisher{}
		svc := newTestService(store, audits, publisher)

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAllocate,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  5,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientInventory))
		assert.Empty(t, audits.saved)
		assert.Empty(t, publisher.published)
	})

	t.Run("rejects when the order limit is reached", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 3, 0)
		store.details["SKU-001"] = inventory.PreOrBackOrderDetails{Quantity: 9, Limit: 10}
		svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAllocate,
			Criteria:  inventory.AvailableForBackOrder,
			Quantity:  5,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientInventory))
		assert.ErrorIs(t, err, inventory.ErrOrderLimitReached)

		// A rejected allocation leaves every counter untouched, including the
		// on-hand portion that would have been committed first.
		assert.Equal(t, 0, store.snapshots[key].AllocatedQuantity)
		assert.Equal(t, 9, store.details["SKU-001"].Quantity)
	})

	t.Run("allocates up to the order limit exactly", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 0, 0)
		store.details["SKU-001"] = inventory.PreOrBackOrderDetails{Quantity: 9, Limit: 10}
		svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

		result, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAllocate,
			Criteria:  inventory.AvailableForBackOrder,
			Quantity:  1,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.QuantityAllocatedOnPreOrBackOrder)
		assert.Equal(t, 10, store.details["SKU-001"].Quantity)
	})

	t.Run("rejects a negative quantity", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAllocate,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  -1,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationError))
	})
}

func TestInventoryApplicationService_ProcessCommand_Deallocate(t *testing.T) {
	key := inventory.Key{SKUCode: "SKU-001", WarehouseID: 1}

	t.Run("returns stock and drains the counter", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 3, 3)
		store.details["SKU-001"] = inventory.PreOrBackOrderDetails{Quantity: 7, Limit: 20}
		publisher := &fakePublisher{}
		svc := newTestService(store, &fakeAuditRepo{}, publisher)

		result, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockDeallocate,
			Criteria:  inventory.AvailableForBackOrder,
			Quantity:  10,
		})
		require.NoError(t, err)

		// Only 3 were allocated on hand; the remaining 7 drain the counter.
		require.NotNil(t, result.InventoryQuantity)
		assert.Equal(t, 3, *result.InventoryQuantity)
		assert.Equal(t, 0, store.snapshots[key].AllocatedQuantity)
		assert.Equal(t, 0, store.details["SKU-001"].Quantity)
		assert.Contains(t, publisher.eventTypes(), "commerce.inventory.stock-deallocated")
	})

	t.Run("rejects a negative quantity before touching counters", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 10, 2)
		store.details["SKU-001"] = inventory.PreOrBackOrderDetails{Quantity: 4, Limit: 20}
		svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockDeallocate,
			Criteria:  inventory.AvailableForBackOrder,
			Quantity:  -5,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationError))
		assert.Equal(t, 2, store.snapshots[key].AllocatedQuantity)
		assert.Equal(t, 4, store.details["SKU-001"].Quantity)
	})
}

func TestInventoryApplicationService_ProcessCommand_ReceiveAndAdjust(t *testing.T) {
	key := inventory.Key{SKUCode: "SKU-001", WarehouseID: 1}

	t.Run("received stock raises on hand and publishes", func(t *testing.T) {
		store := newFakeStore()
		publisher := &fakePublisher{}
		svc := newTestService(store, &fakeAuditRepo{}, publisher)

		result, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockReceived,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  25,
		})
		require.NoError(t, err)
		assert.Equal(t, 25, store.snapshots[key].QuantityOnHand)
		require.NotNil(t, result.Inventory)
		assert.Equal(t, 25, result.Inventory.AvailableInStock)
		assert.Contains(t, publisher.eventTypes(), "commerce.inventory.stock-received")
	})

	t.Run("negative adjustment drains the counter first", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 10, 0)
		store.details["SKU-001"] = inventory.PreOrBackOrderDetails{Quantity: 6, Limit: 20}
		svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAdjustment,
			Criteria:  inventory.AvailableForBackOrder,
			Quantity:  -4,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, store.details["SKU-001"].Quantity)
		assert.Equal(t, 6, store.snapshots[key].QuantityOnHand)
	})
}

func TestInventoryApplicationService_ProcessCommand_Release(t *testing.T) {
	key := inventory.Key{SKUCode: "SKU-001", WarehouseID: 1}

	t.Run("shipped stock leaves both counters", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 10, 4)
		svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockRelease,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  4,
		})
		require.NoError(t, err)
		assert.Equal(t, 6, store.snapshots[key].QuantityOnHand)
		assert.Equal(t, 0, store.snapshots[key].AllocatedQuantity)
	})

	t.Run("rejects a negative quantity before touching counters", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 10, 4)
		svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockRelease,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  -4,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationError))
		assert.Equal(t, 10, store.snapshots[key].QuantityOnHand)
		assert.Equal(t, 4, store.snapshots[key].AllocatedQuantity)
	})
}

func TestInventoryApplicationService_ProcessCommand_AlwaysAvailable(t *testing.T) {
	store := newFakeStore()
	audits := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	svc := newTestService(store, audits, publisher)

	result, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
		SKUCode: "SKU-001", WarehouseID: 1,
		EventType: inventory.EventStockAllocate,
		Criteria:  inventory.AlwaysAvailable,
		Quantity:  100,
	})
	require.NoError(t, err)

	// No counters are tracked; the command is granted and audited only.
	assert.Equal(t, 100, result.Quantity)
	assert.Nil(t, result.InventoryQuantity)
	assert.Empty(t, store.snapshots)
	require.Len(t, audits.saved, 1)
	assert.Empty(t, publisher.published)
}

func TestInventoryApplicationService_ProcessCommand_AvailabilityBoundary(t *testing.T) {
	key := inventory.Key{SKUCode: "SKU-001", WarehouseID: 1}

	t.Run("publishes when the last unit is allocated", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 2, 0)
		publisher := &fakePublisher{}
		svc := newTestService(store, &fakeAuditRepo{}, publisher)

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAllocate,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  2,
		})
		require.NoError(t, err)
		assert.Contains(t, publisher.eventTypes(), "commerce.inventory.availability-changed")
	})

	t.Run("publishes when stock returns", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 0, 0)
		publisher := &fakePublisher{}
		svc := newTestService(store, &fakeAuditRepo{}, publisher)

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockReceived,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  5,
		})
		require.NoError(t, err)
		assert.Contains(t, publisher.eventTypes(), "commerce.inventory.availability-changed")
	})

	t.Run("silent when availability does not cross", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 10, 0)
		publisher := &fakePublisher{}
		svc := newTestService(store, &fakeAuditRepo{}, publisher)

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAllocate,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  3,
		})
		require.NoError(t, err)
		assert.NotContains(t, publisher.eventTypes(), "commerce.inventory.availability-changed")
	})
}

func TestInventoryApplicationService_ProcessCommand_Failures(t *testing.T) {
	key := inventory.Key{SKUCode: "SKU-001", WarehouseID: 1}

	t.Run("audit failure surfaces", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 10, 0)
		audits := &fakeAuditRepo{failErr: errors.New("write failed")}
		svc := newTestService(store, audits, &fakePublisher{})

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockReceived,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  5,
		})
		require.Error(t, err)
	})

	t.Run("publish failure does not fail the command", func(t *testing.T) {
		store := newFakeStore()
		store.seed(key, 10, 0)
		publisher := &fakePublisher{failErr: errors.New("broker down")}
		svc := newTestService(store, &fakeAuditRepo{}, publisher)

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.EventStockAllocate,
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  2,
		})
		require.NoError(t, err)
	})

	t.Run("unknown event type is rejected", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeAuditRepo{}, &fakePublisher{})

		_, err := svc.ProcessCommand(context.Background(), ProcessInventoryCommand{
			SKUCode: "SKU-001", WarehouseID: 1,
			EventType: inventory.InventoryEventType(99),
			Criteria:  inventory.AvailableWhenInStock,
			Quantity:  5,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationError))
	})
}

func TestInventoryApplicationService_CheckAvailability(t *testing.T) {
	key := inventory.Key{SKUCode: "SKU-001", WarehouseID: 1}
	store := newFakeStore()
	store.seed(key, 5, 2)
	svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

	ok, err := svc.CheckAvailability(context.Background(), CheckAvailabilityQuery{
		SKUCode: "SKU-001", WarehouseID: 1,
		Criteria: inventory.AvailableWhenInStock, Quantity: 3,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckAvailability(context.Background(), CheckAvailabilityQuery{
		SKUCode: "SKU-001", WarehouseID: 1,
		Criteria: inventory.AvailableWhenInStock, Quantity: 4,
	})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.CheckAvailability(context.Background(), CheckAvailabilityQuery{
		SKUCode: "SKU-001", WarehouseID: 1,
		Criteria: inventory.AvailableWhenInStock, Quantity: -1,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationError))
}

func TestInventoryApplicationService_GetInventory(t *testing.T) {
	key := inventory.Key{SKUCode: "SKU-001", WarehouseID: 1}
	store := newFakeStore()
	store.seed(key, 8, 3)
	svc := newTestService(store, &fakeAuditRepo{}, &fakePublisher{})

	dto, err := svc.GetInventory(context.Background(), GetInventoryQuery{SKUCode: "SKU-001", WarehouseID: 1})
	require.NoError(t, err)
	assert.Equal(t, 8, dto.QuantityOnHand)
	assert.Equal(t, 3, dto.AllocatedQuantity)
	assert.Equal(t, 5, dto.AvailableInStock)
}
