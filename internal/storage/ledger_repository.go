package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mediameter/internal/models"
	"mediameter/internal/utils"
)

// LedgerRepository owns every balance mutation. All writes follow the
// same shape: begin a transaction, lock the account row with
// SELECT ... FOR UPDATE, repair the reserved invariant if it drifted,
// apply the change, append the audit entry, commit. Concurrent requests
// for one account serialize on the row lock; a failure at any step
// rolls the whole transaction back.
type LedgerRepository struct {
	db     *DB
	logger *utils.Logger
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{
		db:     db,
		logger: utils.NewLogger("ledger"),
	}
}

// EnsureAccount creates the account row if it does not exist yet.
// Idempotent; safe to call on every request.
func (r *LedgerRepository) EnsureAccount(ctx context.Context, userID string) error {
	query := `
		INSERT INTO ledger_accounts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.conn.ExecContext(ctx, query, uuid.New(), userID); err != nil {
		return fmt.Errorf("failed to ensure account: %w", err)
	}
	return nil
}

// Get returns the account without locking it. Read path only; results
// may be cached briefly.
func (r *LedgerRepository) Get(ctx context.Context, userID string) (*models.LedgerAccount, error) {
	if cached, ok := r.db.accountCache.Get(userID); ok {
		acct := cached.(models.LedgerAccount)
		return &acct, nil
	}

	var acct models.LedgerAccount
	query := `
		SELECT id, user_id, balance, reserved, bootstrap_min, pricing_version, created_at, updated_at
		FROM ledger_accounts
		WHERE user_id = $1
	`
	err := r.db.conn.GetContext(ctx, &acct, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	// A read never mutates the row, but it must not expose a broken
	// invariant either; the next locked write persists the repair.
	if acct.SelfHeal() {
		r.logger.Warn("reserved out of bounds on read", "user_id", userID)
	}

	r.db.accountCache.Set(userID, acct)
	return &acct, nil
}

// Bootstrap raises the account's guaranteed minimum balance. If the
// balance is below desiredMin the shortfall is granted and recorded as
// a grant entry with the previous and next minimum; otherwise only the
// minimum and pricing version are updated. Idempotent: repeating the
// call grants nothing further.
func (r *LedgerRepository) Bootstrap(ctx context.Context, userID string, desiredMin int64, pricingVersion, reason string) (*models.LedgerAccount, error) {
	if err := r.EnsureAccount(ctx, userID); err != nil {
		return nil, err
	}

	var result *models.LedgerAccount
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		acct, err := r.lockAccount(ctx, tx, userID)
		if err != nil {
			return err
		}

		prevMin := acct.BootstrapMin
		if desiredMin > acct.BootstrapMin {
			acct.BootstrapMin = desiredMin
		}

		if shortfall := acct.BootstrapMin - acct.Balance; shortfall > 0 {
			acct.Balance += shortfall
			entry := &models.LedgerEntry{
				ID:        uuid.New(),
				AccountID: acct.ID,
				Delta:     shortfall,
				Kind:      models.EntryGrant,
				RefType:   "bootstrap",
				RefID:     pricingVersion,
				Metadata: models.JSONB{
					"reason":   reason,
					"prev_min": prevMin,
					"next_min": acct.BootstrapMin,
				},
			}
			if err := r.appendEntry(ctx, tx, entry); err != nil {
				return err
			}
			r.logger.Info("granted bootstrap tokens",
				"user_id", userID, "amount", shortfall, "min", acct.BootstrapMin)
		}

		acct.PricingVersion = pricingVersion
		if err := r.writeAccount(ctx, tx, acct); err != nil {
			return err
		}
		result = acct
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.db.accountCache.Delete(userID)
	return result, nil
}

// Grant adds purchased or promotional tokens to the balance and
// appends a grant entry. Unlike Bootstrap it does not touch the
// guaranteed minimum.
func (r *LedgerRepository) Grant(ctx context.Context, userID string, amount int64, refType, refID string, metadata models.JSONB) (*models.LedgerAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("grant amount must be positive, got %d", amount)
	}

	if err := r.EnsureAccount(ctx, userID); err != nil {
		return nil, err
	}

	var result *models.LedgerAccount
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		acct, err := r.lockAccount(ctx, tx, userID)
		if err != nil {
			return err
		}

		acct.Balance += amount
		entry := &models.LedgerEntry{
			ID:        uuid.New(),
			AccountID: acct.ID,
			Delta:     amount,
			Kind:      models.EntryGrant,
			RefType:   refType,
			RefID:     refID,
			Metadata:  metadata,
		}
		if err := r.appendEntry(ctx, tx, entry); err != nil {
			return err
		}

		if err := r.writeAccount(ctx, tx, acct); err != nil {
			return err
		}
		result = acct
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.db.accountCache.Delete(userID)
	return result, nil
}

// Reserve claims amount tokens against the account's available balance.
// Reserved tokens stay in the balance until debited; only the balance
// is audited, so no ledger entry is written here.
func (r *LedgerRepository) Reserve(ctx context.Context, userID string, amount int64) (*models.LedgerAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("reserve amount must be positive, got %d", amount)
	}

	var result *models.LedgerAccount
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		acct, err := r.lockAccount(ctx, tx, userID)
		if err != nil {
			return err
		}
		if amount > acct.Available() {
			return ErrInsufficientFunds
		}
		acct.Reserved += amount
		if err := r.writeAccount(ctx, tx, acct); err != nil {
			return err
		}
		result = acct
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.db.accountCache.Delete(userID)
	return result, nil
}

// Release returns previously reserved tokens. Releasing more than is
// reserved clamps to zero rather than erroring; the client may have
// timed out and re-released.
func (r *LedgerRepository) Release(ctx context.Context, userID string, amount int64) (*models.LedgerAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("release amount must be positive, got %d", amount)
	}

	var result *models.LedgerAccount
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		acct, err := r.lockAccount(ctx, tx, userID)
		if err != nil {
			return err
		}
		acct.Reserved -= amount
		if acct.Reserved < 0 {
			acct.Reserved = 0
		}
		if err := r.writeAccount(ctx, tx, acct); err != nil {
			return err
		}
		result = acct
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.db.accountCache.Delete(userID)
	return result, nil
}

// Debit charges the actual cost of a completed action and releases the
// reservation that covered it. Sufficiency is re-validated here
// regardless of any client-side gating; the ledger is the security
// boundary.
func (r *LedgerRepository) Debit(ctx context.Context, userID string, amount, releaseReserved int64, refType, refID string) (*models.LedgerAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	var result *models.LedgerAccount
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		acct, err := r.lockAccount(ctx, tx, userID)
		if err != nil {
			return err
		}
		if amount > acct.Balance {
			return ErrInsufficientFunds
		}

		acct.Balance -= amount
		acct.Reserved -= releaseReserved
		if acct.Reserved < 0 {
			acct.Reserved = 0
		}
		if acct.Reserved > acct.Balance {
			acct.Reserved = acct.Balance
		}

		entry := &models.LedgerEntry{
			ID:        uuid.New(),
			AccountID: acct.ID,
			Delta:     -amount,
			Kind:      models.EntryDebit,
			RefType:   refType,
			RefID:     refID,
		}
		if err := r.appendEntry(ctx, tx, entry); err != nil {
			return err
		}

		if err := r.writeAccount(ctx, tx, acct); err != nil {
			return err
		}
		result = acct
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.db.accountCache.Delete(userID)
	return result, nil
}

// Entries returns the most recent audit entries for an account.
func (r *LedgerRepository) Entries(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, account_id, delta, kind, ref_type, ref_id, metadata, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var entries []*models.LedgerEntry
	if err := r.db.conn.SelectContext(ctx, &entries, query, accountID, limit); err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

// lockAccount reads the account row with an exclusive lock and repairs
// the reserved invariant if it drifted. The repair is persisted by the
// write that follows in the same transaction, and recorded as a
// correction entry so the audit trail explains the jump.
func (r *LedgerRepository) lockAccount(ctx context.Context, tx *sqlx.Tx, userID string) (*models.LedgerAccount, error) {
	var acct models.LedgerAccount
	query := `
		SELECT id, user_id, balance, reserved, bootstrap_min, pricing_version, created_at, updated_at
		FROM ledger_accounts
		WHERE user_id = $1
		FOR UPDATE
	`
	err := tx.GetContext(ctx, &acct, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	prevReserved := acct.Reserved
	if acct.SelfHeal() {
		r.logger.Warn("self-healed reserved invariant",
			"user_id", userID, "prev_reserved", prevReserved, "balance", acct.Balance)
		entry := &models.LedgerEntry{
			ID:        uuid.New(),
			AccountID: acct.ID,
			Delta:     0,
			Kind:      models.EntryCorrection,
			RefType:   "self_heal",
			Metadata:  models.JSONB{"prev_reserved": prevReserved},
		}
		if err := r.appendEntry(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	return &acct, nil
}

// writeAccount persists the mutated account row inside the transaction.
func (r *LedgerRepository) writeAccount(ctx context.Context, tx *sqlx.Tx, acct *models.LedgerAccount) error {
	acct.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE ledger_accounts
		SET balance = $1, reserved = $2, bootstrap_min = $3, pricing_version = $4, updated_at = $5
		WHERE id = $6
	`
	if _, err := tx.ExecContext(ctx, query,
		acct.Balance, acct.Reserved, acct.BootstrapMin, acct.PricingVersion, acct.UpdatedAt, acct.ID); err != nil {
		return fmt.Errorf("failed to write account: %w", err)
	}
	return nil
}

// appendEntry writes one append-only audit row inside the transaction.
func (r *LedgerRepository) appendEntry(ctx context.Context, tx *sqlx.Tx, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, account_id, delta, kind, ref_type, ref_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, query,
		entry.ID, entry.AccountID, entry.Delta, entry.Kind, entry.RefType, entry.RefID, entry.Metadata); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// inTx runs fn inside a transaction, rolling back on any error.
func (r *LedgerRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
