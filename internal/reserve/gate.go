package reserve

import (
	"sync"
	"time"

	"mediameter/internal/models"
)

// Gate is the client-side affordability check used before submitting
// work. It pairs the reservation tracker with the last snapshot the
// server returned. Every server response carrying a snapshot flows
// through ApplySnapshot; there is no other way the gate's view of the
// balance changes, so bootstrap and billing-sync responses reconcile
// identically.
//
// The gate is advisory. A stale snapshot may let a request through
// that the server then rejects; the ledger re-validates every charge.
type Gate struct {
	mu      sync.RWMutex
	tracker *Tracker
	last    models.Snapshot
	synced  bool
}

// NewGate creates a gate with an empty tracker and no snapshot. Until
// the first ApplySnapshot, Available reports zero and CanAfford denies.
func NewGate(claimTTL time.Duration) *Gate {
	return &Gate{
		tracker: NewTracker(claimTTL),
	}
}

// ApplySnapshot replaces the gate's view of the server ledger.
func (g *Gate) ApplySnapshot(snap models.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.last = snap
	g.synced = true
}

// Snapshot returns the last server snapshot and whether one was ever
// applied.
func (g *Gate) Snapshot() (models.Snapshot, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.last, g.synced
}

// Available returns the tokens the client may still claim, combining
// the last server snapshot with local in-flight claims.
func (g *Gate) Available() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.synced {
		return 0
	}
	return Available(g.last.Balance, g.last.Reserved, g.tracker.Claimed())
}

// CanAfford reports whether a new claim of amount tokens fits in the
// available balance.
func (g *Gate) CanAfford(amount int64) bool {
	if amount <= 0 {
		return true
	}
	return amount <= g.Available()
}

// Reserve records a local claim under key after an affordability
// check passes. Claims are advisory and expire on their own.
func (g *Gate) Reserve(key string, amount int64) {
	g.tracker.Reserve(key, amount)
}

// Release drops the local claim under key, after the matching server
// debit or release.
func (g *Gate) Release(key string) {
	g.tracker.Release(key)
}

// Reset drops every local claim and forgets the snapshot, for
// reconnects where the server state must be re-fetched.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tracker.ReleaseAll()
	g.synced = false
	g.last = models.Snapshot{}
}
