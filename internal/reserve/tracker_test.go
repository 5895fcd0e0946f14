package reserve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAvailable(t *testing.T) {
	tests := []struct {
		name           string
		balance        int64
		serverReserved int64
		clientClaims   int64
		want           int64
	}{
		{"no claims", 100, 0, 0, 100},
		{"server already counts the claims", 100, 30, 30, 100},
		{"client ahead of server", 100, 20, 30, 90},
		{"server ahead of client", 100, 50, 30, 100},
		{"claims exceed balance", 100, 0, 250, 0},
		{"zero balance", 0, 0, 10, 0},
		{"negative excess clamps", 100, 80, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Available(tt.balance, tt.serverReserved, tt.clientClaims)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
			assert.LessOrEqual(t, got, tt.balance)
		})
	}
}

func TestTracker_ReserveRelease(t *testing.T) {
	tr := NewTracker(time.Minute)

	tr.Reserve("job-1", 30)
	tr.Reserve("job-2", 20)
	assert.Equal(t, int64(50), tr.Claimed())
	assert.Equal(t, 2, tr.Len())

	// Re-reserving replaces, never stacks
	tr.Reserve("job-1", 10)
	assert.Equal(t, int64(30), tr.Claimed())

	tr.Release("job-1")
	assert.Equal(t, int64(20), tr.Claimed())

	// Double release is a no-op
	tr.Release("job-1")
	assert.Equal(t, int64(20), tr.Claimed())

	tr.ReleaseAll()
	assert.Equal(t, int64(0), tr.Claimed())
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_IgnoresNonPositiveAmounts(t *testing.T) {
	tr := NewTracker(time.Minute)

	tr.Reserve("job-1", 0)
	tr.Reserve("job-2", -5)
	assert.Equal(t, int64(0), tr.Claimed())
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_ClaimsExpire(t *testing.T) {
	tr := NewTracker(time.Minute)

	current := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	tr.Reserve("job-1", 30)
	assert.Equal(t, int64(30), tr.Claimed())

	current = current.Add(30 * time.Second)
	assert.Equal(t, int64(30), tr.Claimed())

	current = current.Add(2 * time.Minute)
	assert.Equal(t, int64(0), tr.Claimed())
	assert.Equal(t, 0, tr.Len())
}
