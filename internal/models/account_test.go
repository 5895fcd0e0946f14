package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLedgerAccount_SelfHeal(t *testing.T) {
	tests := []struct {
		name         string
		balance      int64
		reserved     int64
		wantHealed   bool
		wantBalance  int64
		wantReserved int64
	}{
		{"healthy", 100, 20, false, 100, 20},
		{"reserved equals balance", 100, 100, false, 100, 100},
		{"zero account", 0, 0, false, 0, 0},
		{"negative reserved", 100, -5, true, 100, 0},
		{"reserved above balance", 100, 150, true, 100, 0},
		{"negative balance", -50, 10, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &LedgerAccount{Balance: tt.balance, Reserved: tt.reserved}
			healed := a.SelfHeal()

			assert.Equal(t, tt.wantHealed, healed)
			assert.Equal(t, tt.wantBalance, a.Balance)
			assert.Equal(t, tt.wantReserved, a.Reserved)

			// The invariant holds whatever the input was
			assert.GreaterOrEqual(t, a.Reserved, int64(0))
			assert.LessOrEqual(t, a.Reserved, a.Balance)
		})
	}
}

func TestLedgerAccount_Available(t *testing.T) {
	assert.Equal(t, int64(80), (&LedgerAccount{Balance: 100, Reserved: 20}).Available())
	assert.Equal(t, int64(0), (&LedgerAccount{Balance: 100, Reserved: 100}).Available())
	// Broken invariant still never reports negative
	assert.Equal(t, int64(0), (&LedgerAccount{Balance: 100, Reserved: 150}).Available())
}

func TestLedgerAccount_Snapshot(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	a := &LedgerAccount{
		Balance:        100,
		Reserved:       20,
		BootstrapMin:   500,
		PricingVersion: "2026-06-01",
	}

	snap := a.Snapshot(now)

	assert.Equal(t, int64(80), snap.MediaTokens)
	assert.Equal(t, int64(100), snap.Balance)
	assert.Equal(t, int64(20), snap.Reserved)
	assert.Equal(t, int64(500), snap.BootstrapMin)
	assert.Equal(t, "2026-06-01", snap.PricingVersion)
	assert.Equal(t, now, snap.ServerTime)
}
