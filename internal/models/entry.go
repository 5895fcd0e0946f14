package models

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind classifies a ledger entry (stored as TEXT in Postgres).
type EntryKind string

const (
	EntryGrant      EntryKind = "grant"
	EntryDebit      EntryKind = "debit"
	EntryCorrection EntryKind = "correction"
)

// LedgerEntry is one append-only audit row for a balance change. Entries
// are written in the same transaction as the balance mutation they
// describe and are never updated or deleted.
type LedgerEntry struct {
	ID        uuid.UUID `db:"id"`
	AccountID uuid.UUID `db:"account_id"`
	Delta     int64     `db:"delta"`
	Kind      EntryKind `db:"kind"`
	RefType   string    `db:"ref_type"`
	RefID     string    `db:"ref_id"`
	Metadata  JSONB     `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}
