package estimate

import (
	"mediameter/internal/pricing"
)

// TranscriptionItem is one media file inside a transcription run.
type TranscriptionItem struct {
	DurationSeconds float64
	ModelID         string // empty means "use the run default"
}

// TranscriptionEstimator prices transcription runs against a manifest.
type TranscriptionEstimator struct {
	manifest *pricing.Manifest
}

// NewTranscriptionEstimator creates an estimator bound to a manifest.
func NewTranscriptionEstimator(m *pricing.Manifest) *TranscriptionEstimator {
	return &TranscriptionEstimator{manifest: m}
}

// EstimateItem prices a single media item in processing units.
//
// Unknown model IDs price at rate 0 rather than erroring: the client may
// hold a newer manifest than the server (or vice versa), and a missing
// rate must not block the action. The per-item overhead is still charged
// so the run total stays an upper bound.
func (e *TranscriptionEstimator) EstimateItem(durationSeconds float64, modelID string) int64 {
	billable := int64(e.manifest.BillableSeconds(durationSeconds))
	if billable == 0 {
		return 0
	}
	rate := e.manifest.RateFor(modelID)
	return pricing.CeilDiv(billable*rate, 60) + e.manifest.PerItemOverhead
}

// EstimateRun prices a whole run: the sum of per-item estimates plus the
// per-run overhead. Items with no model of their own use defaultModelID.
// The total is a plain sum, so it is identical for any permutation of
// items.
func (e *TranscriptionEstimator) EstimateRun(items []TranscriptionItem, defaultModelID string) int64 {
	if len(items) == 0 {
		return 0
	}
	var total int64
	for _, it := range items {
		modelID := it.ModelID
		if modelID == "" {
			modelID = defaultModelID
		}
		total += e.EstimateItem(it.DurationSeconds, modelID)
	}
	return total + e.manifest.PerRunOverhead
}
