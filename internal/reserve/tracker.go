package reserve

import (
	"sync"
	"time"
)

// Tracker is the client-side view of in-flight reservations, keyed by
// reservation key (typically the job or request ID). It only ever
// lowers what the client believes is spendable; the server ledger is
// authoritative and the tracker never blocks a server decision.
//
// Claims carry a deadline so a crashed flow cannot pin tokens forever;
// expired claims are dropped lazily on the next read or write.
type Tracker struct {
	mu     sync.Mutex
	claims map[string]claim
	ttl    time.Duration
	now    func() time.Time
}

type claim struct {
	amount   int64
	deadline time.Time
}

// DefaultClaimTTL bounds how long an unreleased claim stays counted.
const DefaultClaimTTL = 10 * time.Minute

// NewTracker creates a tracker. ttl <= 0 uses DefaultClaimTTL.
func NewTracker(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = DefaultClaimTTL
	}
	return &Tracker{
		claims: make(map[string]claim),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Reserve records a claim under key. Re-reserving the same key
// replaces the previous amount rather than stacking.
func (t *Tracker) Reserve(key string, amount int64) {
	if amount <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked()
	t.claims[key] = claim{amount: amount, deadline: t.now().Add(t.ttl)}
}

// Release drops the claim under key. Unknown keys are a no-op; the
// flow may have already expired or been released twice.
func (t *Tracker) Release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.claims, key)
}

// ReleaseAll drops every claim, for full resyncs after reconnect.
func (t *Tracker) ReleaseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.claims = make(map[string]claim)
}

// Claimed returns the sum of all live claims.
func (t *Tracker) Claimed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked()

	var total int64
	for _, c := range t.claims {
		total += c.amount
	}
	return total
}

// Len returns the number of live claims.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked()
	return len(t.claims)
}

func (t *Tracker) expireLocked() {
	now := t.now()
	for key, c := range t.claims {
		if now.After(c.deadline) {
			delete(t.claims, key)
		}
	}
}

// Available computes spendable tokens from a server balance, the
// server's own reserved figure, and the local claim total. Local
// claims the server already knows about must not be double-counted,
// so only the excess over serverReserved reduces the balance. The
// result never goes below zero and local state can never make the
// client believe it has more than the server reported.
func Available(balance, serverReserved, clientClaims int64) int64 {
	excess := clientClaims - serverReserved
	if excess < 0 {
		excess = 0
	}
	if excess > balance {
		excess = balance
	}

	avail := balance - excess
	if avail < 0 {
		return 0
	}
	return avail
}
