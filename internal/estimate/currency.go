package estimate

import (
	"mediameter/internal/pricing"
)

// markupPct is the fixed factor applied to the vendor list price to
// derive the sell price, in percent. Not configurable: changing it is a
// business decision that ships as a code change, not an env var.
const markupPct = 250

// Converter maps processing units to USD cents and media tokens. Every
// conversion rounds up, so the platform never undercharges; zero or
// negative inputs convert to 0.
type Converter struct {
	manifest *pricing.Manifest
}

// NewConverter creates a converter bound to a manifest.
func NewConverter(m *pricing.Manifest) *Converter {
	return &Converter{manifest: m}
}

// USDCentsFromUnits converts billable processing units to USD cents.
func (c *Converter) USDCentsFromUnits(units int64) int64 {
	if units <= 0 {
		return 0
	}
	effectiveCentsPerMillion := c.manifest.VendorCentsPerMillion * markupPct / 100
	return pricing.CeilDiv(units*effectiveCentsPerMillion, 1_000_000)
}

// MediaTokensFromUSDCents converts USD cents to media tokens.
func (c *Converter) MediaTokensFromUSDCents(cents int64) int64 {
	if cents <= 0 {
		return 0
	}
	return pricing.CeilDiv(cents*c.manifest.TokensPerUSD, 100)
}

// MediaTokensFromUnits is the composed conversion used for gating.
func (c *Converter) MediaTokensFromUnits(units int64) int64 {
	return c.MediaTokensFromUSDCents(c.USDCentsFromUnits(units))
}
