package estimate

import (
	"testing"

	"mediameter/internal/pricing"
)

func TestTranscriptionEstimator_EstimateItem(t *testing.T) {
	e := NewTranscriptionEstimator(pricing.Default())

	tests := []struct {
		name     string
		duration float64
		modelID  string
		want     int64
	}{
		// 125s at 24 units/min: ceil(125*24/60) = 50, plus 2 overhead
		{"standard model", 125, "scribe-standard", 52},
		// 125s at 48 units/min: ceil(125*48/60) = 100, plus 2 overhead
		{"enhanced model", 125, "scribe-enhanced", 102},
		// rate 0, overhead still charged
		{"unknown model", 60, "no-such-model", 2},
		{"zero duration is free", 0, "scribe-standard", 0},
		{"negative duration is free", -10, "scribe-standard", 0},
		// 0.5s rounds up to 1 billable second: ceil(1*24/60) = 1, plus 2
		{"sub-second", 0.5, "scribe-standard", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.EstimateItem(tt.duration, tt.modelID)
			if got != tt.want {
				t.Errorf("EstimateItem(%v, %q) = %d, want %d", tt.duration, tt.modelID, got, tt.want)
			}
		})
	}
}

func TestTranscriptionEstimator_EstimateRun(t *testing.T) {
	e := NewTranscriptionEstimator(pricing.Default())

	if got := e.EstimateRun(nil, "scribe-standard"); got != 0 {
		t.Errorf("empty run = %d, want 0", got)
	}

	items := []TranscriptionItem{
		{DurationSeconds: 125, ModelID: "scribe-standard"}, // 52
		{DurationSeconds: 60},                              // default model: ceil(60*24/60)=24, +2 = 26
	}
	// 52 + 26 + 5 per-run overhead
	if got := e.EstimateRun(items, "scribe-standard"); got != 83 {
		t.Errorf("EstimateRun = %d, want 83", got)
	}
}

func TestTranscriptionEstimator_RunOrderInvariant(t *testing.T) {
	e := NewTranscriptionEstimator(pricing.Default())

	items := []TranscriptionItem{
		{DurationSeconds: 125, ModelID: "scribe-standard"},
		{DurationSeconds: 31.5, ModelID: "scribe-enhanced"},
		{DurationSeconds: 600},
	}
	reversed := []TranscriptionItem{items[2], items[1], items[0]}

	if a, b := e.EstimateRun(items, "scribe-standard"), e.EstimateRun(reversed, "scribe-standard"); a != b {
		t.Errorf("run total depends on item order: %d != %d", a, b)
	}
}
