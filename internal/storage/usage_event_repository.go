package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mediameter/internal/models"
)

// UsageEventRepository persists the append-only record of estimates
// and debits. Writes come through the queue worker, not from request
// handlers.
type UsageEventRepository struct {
	db *DB
}

// NewUsageEventRepository creates a new usage event repository
func NewUsageEventRepository(db *DB) *UsageEventRepository {
	return &UsageEventRepository{db: db}
}

// Create inserts a single usage event.
func (r *UsageEventRepository) Create(ctx context.Context, event *models.UsageEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	query := `
		INSERT INTO usage_events (id, user_id, service, kind, billable_units, media_tokens, ref_type, ref_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := r.db.conn.ExecContext(ctx, query,
		event.ID, event.UserID, event.Service, event.Kind,
		event.BillableUnits, event.MediaTokens, event.RefType, event.RefID); err != nil {
		return fmt.Errorf("failed to insert usage event: %w", err)
	}
	return nil
}

// createInTx inserts a single usage event inside an existing transaction.
func (r *UsageEventRepository) createInTx(ctx context.Context, tx *sqlx.Tx, event *models.UsageEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	query := `
		INSERT INTO usage_events (id, user_id, service, kind, billable_units, media_tokens, ref_type, ref_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.ExecContext(ctx, query,
		event.ID, event.UserID, event.Service, event.Kind,
		event.BillableUnits, event.MediaTokens, event.RefType, event.RefID); err != nil {
		return fmt.Errorf("failed to insert usage event: %w", err)
	}
	return nil
}

// CreateBatch inserts multiple usage events in a single transaction.
func (r *UsageEventRepository) CreateBatch(ctx context.Context, events []*models.UsageEvent) error {
	tx, err := r.db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, event := range events {
		if err := r.createInTx(ctx, tx, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListByUser returns the most recent usage events for a user.
func (r *UsageEventRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.UsageEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, user_id, service, kind, billable_units, media_tokens, ref_type, ref_id, created_at
		FROM usage_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var events []*models.UsageEvent
	if err := r.db.conn.SelectContext(ctx, &events, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list usage events: %w", err)
	}
	return events, nil
}
