package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"mediameter/internal/config"
	"mediameter/internal/pricing"
)

func TestPlanFor(t *testing.T) {
	m := pricing.Default()

	tests := []struct {
		bootstrapMin int64
		wantID       string
	}{
		{0, "free"},
		{499, "free"},
		{500, "starter"},
		{2199, "starter"},
		{2200, "creator"},
		{6000, "studio"},
		{100000, "studio"},
	}

	for _, tt := range tests {
		id, label := planFor(m, tt.bootstrapMin)
		assert.Equal(t, tt.wantID, id, "bootstrapMin=%d", tt.bootstrapMin)
		assert.NotEmpty(t, label)
	}
}

func TestLedgerHandler_MethodChecks(t *testing.T) {
	h := NewLedgerHandler(nil, pricing.Default(), &config.Config{})

	tests := []struct {
		name    string
		method  string
		handler http.HandlerFunc
	}{
		{"bootstrap rejects GET", http.MethodGet, h.Bootstrap},
		{"sync rejects POST", http.MethodPost, h.BillingSync},
		{"reserve rejects GET", http.MethodGet, h.Reserve},
		{"debit rejects GET", http.MethodGet, h.Debit},
		{"release rejects GET", http.MethodGet, h.Release},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, httptest.NewRequest(tt.method, "/", nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
}

func TestLedgerHandler_RequiresIdentity(t *testing.T) {
	h := NewLedgerHandler(nil, pricing.Default(), &config.Config{})

	rr := httptest.NewRecorder()
	h.Bootstrap(rr, httptest.NewRequest(http.MethodPost, "/v1/ledger/bootstrap", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	h.BillingSync(rr, httptest.NewRequest(http.MethodGet, "/v1/billing/sync", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
