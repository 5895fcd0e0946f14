package storage

import (
	"context"
	"fmt"
)

// EnsureSchema creates the required tables if they don't exist.
// Safe to call on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS ledger_accounts (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			balance BIGINT NOT NULL DEFAULT 0,
			reserved BIGINT NOT NULL DEFAULT 0,
			bootstrap_min BIGINT NOT NULL DEFAULT 0,
			pricing_version TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS ledger_entries (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES ledger_accounts(id),
			delta BIGINT NOT NULL,
			kind TEXT NOT NULL,
			ref_type TEXT NOT NULL DEFAULT '',
			ref_id TEXT NOT NULL DEFAULT '',
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_ledger_entries_account
			ON ledger_entries(account_id, created_at);

		CREATE TABLE IF NOT EXISTS usage_events (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			service TEXT NOT NULL,
			kind TEXT NOT NULL,
			billable_units BIGINT NOT NULL DEFAULT 0,
			media_tokens BIGINT NOT NULL DEFAULT 0,
			ref_type TEXT NOT NULL DEFAULT '',
			ref_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_usage_events_user
			ON usage_events(user_id, created_at);
	`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
