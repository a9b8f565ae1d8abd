package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commerce-platform/commerce-core/internal/domain/inventory"
	apperrors "github.com/commerce-platform/commerce-core/pkg/errors"
	"github.com/commerce-platform/commerce-core/pkg/logging"
	"github.com/commerce-platform/commerce-core/pkg/metrics"
)

// InventoryApplicationService orchestrates inventory commands: availability
// gating, counter mutation, pre/back-order settlement, the audit trail, and
// event publication.
//
// Per-(SKU, warehouse) serialization is the caller's duty; the service assumes
// it is invoked under an exclusive lock for the key being mutated.
type InventoryApplicationService struct {
	store     inventory.Store
	processor *inventory.CommandProcessor
	audits    inventory.AuditRepository
	publisher inventory.EventPublisher
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewInventoryApplicationService creates a new InventoryApplicationService
func NewInventoryApplicationService(
	store inventory.Store,
	audits inventory.AuditRepository,
	publisher inventory.EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *InventoryApplicationService {
	return &InventoryApplicationService{
		store:     store,
		processor: inventory.NewCommandProcessor(store, store),
		audits:    audits,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// CheckAvailability answers whether a quantity is fulfillable for a purchase
// under the product's availability criteria
func (s *InventoryApplicationService) CheckAvailability(ctx context.Context, query CheckAvailabilityQuery) (bool, error) {
	key := inventory.Key{SKUCode: query.SKUCode, WarehouseID: query.WarehouseID}

	ok, err := query.Criteria.HasSufficientInventory(ctx, s.store, key, query.Quantity)
	if err != nil {
		if errors.Is(err, inventory.ErrInvalidQuantity) {
			return false, apperrors.ErrValidation(err.Error())
		}
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return ok, nil
}

// GetInventory returns the current stock snapshot for a key
func (s *InventoryApplicationService) GetInventory(ctx context.Context, query GetInventoryQuery) (*InventoryDTO, error) {
	key := inventory.Key{SKUCode: query.SKUCode, WarehouseID: query.WarehouseID}

	snapshot, err := s.store.Snapshot(ctx, key)
	if err != nil {
		if errors.Is(err, inventory.ErrSKUNotFound) {
			return nil, apperrors.ErrNotFound("inventory")
		}
		s.logger.Error("Failed to get inventory", "sku", query.SKUCode, "error", err)
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return ToInventoryDTO(snapshot), nil
}

// ProcessCommand applies one inventory command and returns its result.
//
// Products that are always available track no counters: the command
// short-circuits to a fully granted result, recorded in the audit trail only.
func (s *InventoryApplicationService) ProcessCommand(ctx context.Context, cmd ProcessInventoryCommand) (*AllocationResultDTO, error) {
	start := time.Now()

	result, err := s.process(ctx, cmd)
	s.observeCommand(cmd, start, err)
	if err != nil {
		return nil, err
	}
	return ToAllocationResultDTO(result), nil
}

func (s *InventoryApplicationService) process(ctx context.Context, cmd ProcessInventoryCommand) (*inventory.AllocationResult, error) {
	if !cmd.EventType.IsValid() {
		return nil, apperrors.ErrValidation(inventory.ErrUnknownEventType.Error())
	}
	// Stock adjustment is the only command whose quantity is signed; every
	// other command moves counters by a non-negative amount.
	if cmd.Quantity < 0 && cmd.EventType != inventory.EventStockAdjustment {
		return nil, apperrors.ErrValidation(inventory.ErrInvalidQuantity.Error())
	}
	key := cmd.Key()

	if cmd.Criteria == inventory.AlwaysAvailable {
		result := &inventory.AllocationResult{Quantity: cmd.Quantity}
		if err := s.saveAudit(ctx, cmd); err != nil {
			return nil, err
		}
		s.logger.Info("Processed inventory command without stock tracking",
			"sku", cmd.SKUCode, "eventType", cmd.EventType.String(), "quantity", cmd.Quantity)
		return result, nil
	}

	before, err := s.store.Snapshot(ctx, key)
	if err != nil && !errors.Is(err, inventory.ErrSKUNotFound) {
		s.logger.Error("Failed to read inventory", "sku", cmd.SKUCode, "error", err)
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	if cmd.EventType == inventory.EventStockAllocate {
		ok, err := cmd.Criteria.HasSufficientInventory(ctx, s.store, key, cmd.Quantity)
		if err != nil {
			return nil, s.mapDomainError(err)
		}
		if !ok {
			s.logger.Warn("Allocation rejected",
				"sku", cmd.SKUCode, "warehouseId", cmd.WarehouseID, "quantity", cmd.Quantity)
			return nil, apperrors.ErrInsufficientInventory(inventory.ErrInsufficientInventory.Error()).
				WithDetail("sku", cmd.SKUCode)
		}

		// The stock counters move before the pre/back-order settlement, so the
		// limit headroom is checked up front rather than unwound after a failed
		// settlement.
		ok, err = cmd.Criteria.HasSufficientUnallocatedQty(ctx, s.store, key, cmd.Quantity)
		if err != nil {
			return nil, s.mapDomainError(err)
		}
		if !ok {
			s.logger.Warn("Allocation rejected by order limit",
				"sku", cmd.SKUCode, "warehouseId", cmd.WarehouseID, "quantity", cmd.Quantity)
			return nil, s.mapDomainError(inventory.ErrOrderLimitReached)
		}
	}

	adjusted, err := s.processor.PreProcess(ctx, cmd.EventType, cmd.Criteria, key, cmd.Quantity, before.AllocatedQuantity)
	if err != nil {
		return nil, s.mapDomainError(err)
	}

	result := &inventory.AllocationResult{Quantity: cmd.Quantity}
	after, err := s.applyToStore(ctx, cmd, key, adjusted, result)
	if err != nil {
		s.logger.Error("Failed to update inventory counters", "sku", cmd.SKUCode, "error", err)
		return nil, fmt.Errorf("failed to update inventory counters: %w", err)
	}

	if err := s.processor.PostProcess(ctx, cmd.EventType, cmd.Criteria, cmd.SKUCode, cmd.Quantity, result); err != nil {
		return nil, s.mapDomainError(err)
	}
	result.InventoryAfter = &after

	if err := s.saveAudit(ctx, cmd); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, cmd, before, after, result)

	if result.QuantityAllocatedOnPreOrBackOrder > 0 {
		s.metrics.PreOrBackOrderAllocated.WithLabelValues(cmd.SKUCode).
			Add(float64(result.QuantityAllocatedOnPreOrBackOrder))
	}

	s.logger.Info("Processed inventory command",
		"sku", cmd.SKUCode, "warehouseId", cmd.WarehouseID,
		"eventType", cmd.EventType.String(), "quantity", cmd.Quantity,
		"onHand", after.QuantityOnHand, "allocated", after.AllocatedQuantity,
		"preOrBackOrder", result.QuantityAllocatedOnPreOrBackOrder)
	return result, nil
}

// applyToStore mutates the on-hand and allocated counters for the command and
// returns the snapshot after the mutation
func (s *InventoryApplicationService) applyToStore(ctx context.Context, cmd ProcessInventoryCommand, key inventory.Key, adjusted int, result *inventory.AllocationResult) (inventory.Snapshot, error) {
	switch cmd.EventType {
	case inventory.EventStockReceived:
		return s.store.AdjustQuantityOnHand(ctx, key, adjusted)
	case inventory.EventStockAdjustment:
		// A negative adjustment drained the pre/back-order counter during
		// pre-processing; the on-hand counter still moves by the commanded
		// amount.
		return s.store.AdjustQuantityOnHand(ctx, key, cmd.Quantity)
	case inventory.EventStockAllocate:
		result.SetInventoryQuantity(adjusted)
		return s.store.AdjustAllocatedQuantity(ctx, key, adjusted)
	case inventory.EventStockDeallocate:
		result.SetInventoryQuantity(adjusted)
		return s.store.AdjustAllocatedQuantity(ctx, key, -adjusted)
	case inventory.EventStockRelease:
		// Shipped stock leaves both counters.
		if _, err := s.store.AdjustAllocatedQuantity(ctx, key, -adjusted); err != nil {
			return inventory.Snapshot{}, err
		}
		return s.store.AdjustQuantityOnHand(ctx, key, -adjusted)
	default:
		return s.store.Snapshot(ctx, key)
	}
}

func (s *InventoryApplicationService) publishEvents(ctx context.Context, cmd ProcessInventoryCommand, before, after inventory.Snapshot, result *inventory.AllocationResult) {
	now := time.Now().UTC()
	var events []inventory.DomainEvent

	switch cmd.EventType {
	case inventory.EventStockAllocate:
		events = append(events, &inventory.StockAllocatedEvent{
			SKUCode:                cmd.SKUCode,
			WarehouseID:            cmd.WarehouseID,
			Quantity:               cmd.Quantity,
			OnHandQuantity:         result.InventoryQuantityOrZero(),
			PreOrBackOrderQuantity: result.QuantityAllocatedOnPreOrBackOrder,
			AllocatedAt:            now,
		})
	case inventory.EventStockDeallocate:
		events = append(events, &inventory.StockDeallocatedEvent{
			SKUCode:       cmd.SKUCode,
			WarehouseID:   cmd.WarehouseID,
			Quantity:      cmd.Quantity,
			DeallocatedAt: now,
		})
	case inventory.EventStockReceived:
		events = append(events, &inventory.StockReceivedEvent{
			SKUCode:     cmd.SKUCode,
			WarehouseID: cmd.WarehouseID,
			Quantity:    cmd.Quantity,
			ReceivedAt:  now,
		})
	case inventory.EventStockAdjustment:
		if cmd.Quantity > 0 {
			events = append(events, &inventory.StockReceivedEvent{
				SKUCode:     cmd.SKUCode,
				WarehouseID: cmd.WarehouseID,
				Quantity:    cmd.Quantity,
				ReceivedAt:  now,
			})
		}
	}

	if cmd.Criteria == inventory.AvailableWhenInStock {
		wasInStock := before.AvailableInStock() > 0
		isInStock := after.AvailableInStock() > 0
		if wasInStock != isInStock {
			events = append(events, &inventory.StockAvailabilityChangedEvent{
				SKUCode:     cmd.SKUCode,
				WarehouseID: cmd.WarehouseID,
				InStock:     isInStock,
				ChangedAt:   now,
			})
		}
	}

	if len(events) == 0 {
		return
	}
	// Publication failures are logged, not surfaced: the counters are already
	// committed and the command outcome must reflect them.
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.Error("Failed to publish inventory events", "sku", cmd.SKUCode, "error", err)
	}
}

func (s *InventoryApplicationService) saveAudit(ctx context.Context, cmd ProcessInventoryCommand) error {
	audit := inventory.NewAudit(cmd.Key(), cmd.EventType, cmd.Quantity).
		WithReason(cmd.Reason).
		WithOriginator(cmd.EventOriginator).
		WithOrderNumber(cmd.OrderNumber).
		WithComment(cmd.Comment)

	if err := s.audits.Save(ctx, audit); err != nil {
		s.logger.Error("Failed to save inventory audit", "sku", cmd.SKUCode, "error", err)
		return fmt.Errorf("failed to save inventory audit: %w", err)
	}
	return nil
}

func (s *InventoryApplicationService) mapDomainError(err error) error {
	switch {
	case errors.Is(err, inventory.ErrInsufficientInventory):
		return apperrors.Wrap(err, apperrors.CodeInsufficientInventory, err.Error())
	case errors.Is(err, inventory.ErrInvalidQuantity), errors.Is(err, inventory.ErrUnknownEventType):
		return apperrors.ErrValidation(err.Error())
	default:
		return fmt.Errorf("failed to process inventory command: %w", err)
	}
}

func (s *InventoryApplicationService) observeCommand(cmd ProcessInventoryCommand, start time.Time, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case apperrors.IsCode(err, apperrors.CodeInsufficientInventory):
		outcome = "rejected"
		if errors.Is(err, inventory.ErrOrderLimitReached) {
			s.metrics.OrderLimitRejections.WithLabelValues(cmd.SKUCode).Inc()
		}
	case apperrors.IsCode(err, apperrors.CodeValidationError):
		outcome = "invalid"
	default:
		outcome = "error"
	}

	s.metrics.InventoryCommandsTotal.WithLabelValues(cmd.EventType.String(), outcome).Inc()
	s.metrics.InventoryCommandDuration.WithLabelValues(cmd.EventType.String()).Observe(time.Since(start).Seconds())
}
