package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageEvent records one metering observation: an estimate served or a
// debit applied. Events never affect a balance, so they are queued and
// written asynchronously in batches.
type UsageEvent struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Service       string    `db:"service" json:"service"`
	Kind          string    `db:"kind" json:"kind"` // "estimate" or "debit"
	BillableUnits int64     `db:"billable_units" json:"billable_units"`
	MediaTokens   int64     `db:"media_tokens" json:"media_tokens"`
	RefType       string    `db:"ref_type" json:"ref_type"`
	RefID         string    `db:"ref_id" json:"ref_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
