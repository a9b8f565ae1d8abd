package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/commerce-platform/commerce-core/internal/domain/inventory"
	"github.com/commerce-platform/commerce-core/pkg/logging"
	"github.com/commerce-platform/commerce-core/pkg/metrics"
)

// AuditRepository persists the inventory audit trail in the
// "inventory_audits" collection
type AuditRepository struct {
	collection *mongo.Collection
	breaker    *Breaker
	logger     *logging.Logger
}

// NewAuditRepository creates an AuditRepository over the given database
func NewAuditRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *AuditRepository {
	repo := &AuditRepository{
		collection: db.Collection("inventory_audits"),
		breaker:    NewBreaker("audit_repository", m, logger),
		logger:     logger,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *AuditRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "skuCode", Value: 1}, {Key: "occurredAt", Value: -1}}},
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		r.logger.Warn("Failed to ensure audit indexes", "error", err)
	}
}

// Save implements inventory.AuditRepository
func (r *AuditRepository) Save(ctx context.Context, audit *inventory.Audit) error {
	_, err := r.breaker.Execute("audit_insert", func() (interface{}, error) {
		return r.collection.InsertOne(ctx, audit)
	})
	if err != nil {
		return fmt.Errorf("failed to save audit: %w", err)
	}
	return nil
}

// FindBySKU returns the most recent audits for a SKU, newest first
func (r *AuditRepository) FindBySKU(ctx context.Context, skuCode string, limit int64) ([]*inventory.Audit, error) {
	result, err := r.breaker.Execute("audit_find", func() (interface{}, error) {
		opts := options.Find().
			SetSort(bson.D{{Key: "occurredAt", Value: -1}}).
			SetLimit(limit)

		cursor, err := r.collection.Find(ctx, bson.M{"skuCode": skuCode}, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var audits []*inventory.Audit
		if err := cursor.All(ctx, &audits); err != nil {
			return nil, err
		}
		return audits, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find audits: %w", err)
	}
	return result.([]*inventory.Audit), nil
}

// FindByOrderNumber returns all audits recorded against an order
func (r *AuditRepository) FindByOrderNumber(ctx context.Context, orderNumber string) ([]*inventory.Audit, error) {
	result, err := r.breaker.Execute("audit_find", func() (interface{}, error) {
		cursor, err := r.collection.Find(ctx, bson.M{"orderNumber": orderNumber})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var audits []*inventory.Audit
		if err := cursor.All(ctx, &audits); err != nil {
			return nil, err
		}
		return audits, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find audits: %w", err)
	}
	return result.([]*inventory.Audit), nil
}
