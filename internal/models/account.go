package models

import (
	"time"

	"github.com/google/uuid"
)

// LedgerAccount is the server-authoritative token balance for one user.
// The invariant 0 <= Reserved <= Balance holds at all times; drift is
// repaired by SelfHeal rather than reported. Rows are mutated only
// inside a storage transaction that holds the row lock.
type LedgerAccount struct {
	ID             uuid.UUID `db:"id"`
	UserID         string    `db:"user_id"`
	Balance        int64     `db:"balance"`
	Reserved       int64     `db:"reserved"`
	BootstrapMin   int64     `db:"bootstrap_min"`
	PricingVersion string    `db:"pricing_version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// SelfHeal forces Reserved back into [0, Balance] and reports whether a
// repair was needed. A negative balance is also clamped to zero; that
// state should be unreachable, but the ledger must never expose it.
func (a *LedgerAccount) SelfHeal() bool {
	healed := false
	if a.Balance < 0 {
		a.Balance = 0
		healed = true
	}
	if a.Reserved < 0 || a.Reserved > a.Balance {
		a.Reserved = 0
		healed = true
	}
	return healed
}

// Available is the amount a new action may claim right now.
func (a *LedgerAccount) Available() int64 {
	avail := a.Balance - a.Reserved
	if avail < 0 {
		return 0
	}
	return avail
}

// Snapshot is the externally visible view of an account. It is the one
// shape both the ledger-bootstrap and billing-sync endpoints return, so
// clients reconcile every source of ledger truth through a single path.
type Snapshot struct {
	MediaTokens    int64     `json:"media_tokens"` // available now
	Balance        int64     `json:"media_tokens_balance"`
	Reserved       int64     `json:"media_tokens_reserved"`
	PricingVersion string    `json:"pricing_version"`
	BootstrapMin   int64     `json:"bootstrap_min"`
	ServerTime     time.Time `json:"server_time"`
}

// Snapshot builds the external view at the given server time.
func (a *LedgerAccount) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		MediaTokens:    a.Available(),
		Balance:        a.Balance,
		Reserved:       a.Reserved,
		PricingVersion: a.PricingVersion,
		BootstrapMin:   a.BootstrapMin,
		ServerTime:     now.UTC(),
	}
}
