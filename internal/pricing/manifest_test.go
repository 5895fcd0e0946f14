package pricing

import "testing"

func TestManifest_RateFor(t *testing.T) {
	m := Default()

	if got := m.RateFor("scribe-standard"); got != 24 {
		t.Errorf("RateFor(scribe-standard) = %d, want 24", got)
	}
	if got := m.RateFor("scribe-enhanced"); got != 48 {
		t.Errorf("RateFor(scribe-enhanced) = %d, want 48", got)
	}
	if got := m.RateFor("no-such-model"); got != 0 {
		t.Errorf("RateFor(no-such-model) = %d, want 0", got)
	}
	if got := m.RateFor(""); got != 0 {
		t.Errorf("RateFor(empty) = %d, want 0", got)
	}
}

func TestManifest_BillableSeconds(t *testing.T) {
	m := &Manifest{QuantumSeconds: 15, MinBillableSeconds: 30}

	if got := m.BillableSeconds(125); got != 135 {
		t.Errorf("BillableSeconds(125) = %d, want 135", got)
	}
	if got := m.BillableSeconds(0); got != 0 {
		t.Errorf("BillableSeconds(0) = %d, want 0", got)
	}
}

func TestManifest_Export(t *testing.T) {
	m := Default()
	e := m.Export()

	if e.PricingVersion != m.Version {
		t.Errorf("PricingVersion = %q, want %q", e.PricingVersion, m.Version)
	}
	if len(e.Models) != len(m.Models) {
		t.Errorf("len(Models) = %d, want %d", len(e.Models), len(m.Models))
	}
	if len(e.Packs) != len(m.Packs) {
		t.Errorf("len(Packs) = %d, want %d", len(e.Packs), len(m.Packs))
	}
	if e.TokensPerUSD != m.TokensPerUSD {
		t.Errorf("TokensPerUSD = %d, want %d", e.TokensPerUSD, m.TokensPerUSD)
	}
	for i, mr := range m.Models {
		if e.Models[i].ID != mr.ID || e.Models[i].TokensPerMinute != mr.TokensPerMinute {
			t.Errorf("Models[%d] = %+v, want %+v", i, e.Models[i], mr)
		}
	}
}
