package estimate

import (
	"testing"

	"mediameter/internal/pricing"
)

func TestConverter_USDCentsFromUnits(t *testing.T) {
	c := NewConverter(pricing.Default())

	// Default vendor price 20000 cents/M marked up to 50000 cents/M.
	tests := []struct {
		units int64
		want  int64
	}{
		{0, 0},
		{-10, 0},
		{1, 1},     // ceil(50000/1M) rounds the fraction of a cent up
		{20, 1},    // exactly 1 cent
		{21, 2},    // just over
		{838, 42},  // ceil(41.9)
		{1000, 50}, // exact
	}

	for _, tt := range tests {
		if got := c.USDCentsFromUnits(tt.units); got != tt.want {
			t.Errorf("USDCentsFromUnits(%d) = %d, want %d", tt.units, got, tt.want)
		}
	}
}

func TestConverter_MediaTokensFromUSDCents(t *testing.T) {
	c := NewConverter(pricing.Default())

	tests := []struct {
		cents int64
		want  int64
	}{
		{0, 0},
		{-1, 0},
		{1, 1},   // ceil(0.01 USD * 100 tokens)
		{100, 100},
		{101, 101},
		{42, 42},
	}

	for _, tt := range tests {
		if got := c.MediaTokensFromUSDCents(tt.cents); got != tt.want {
			t.Errorf("MediaTokensFromUSDCents(%d) = %d, want %d", tt.cents, got, tt.want)
		}
	}
}

func TestConverter_Monotonic(t *testing.T) {
	c := NewConverter(pricing.Default())

	var prev int64
	for units := int64(0); units <= 5000; units += 7 {
		got := c.USDCentsFromUnits(units)
		if got < prev {
			t.Fatalf("USDCentsFromUnits decreased at units=%d: %d < %d", units, got, prev)
		}
		prev = got
	}
}

func TestConverter_MediaTokensFromUnits(t *testing.T) {
	c := NewConverter(pricing.Default())

	if got, want := c.MediaTokensFromUnits(838), c.MediaTokensFromUSDCents(c.USDCentsFromUnits(838)); got != want {
		t.Errorf("MediaTokensFromUnits(838) = %d, want composed %d", got, want)
	}
	if got := c.MediaTokensFromUnits(0); got != 0 {
		t.Errorf("MediaTokensFromUnits(0) = %d, want 0", got)
	}
}
