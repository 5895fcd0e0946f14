package estimate

import (
	"mediameter/internal/pricing"
)

// TextUsage is the unit breakdown of a text-priced run (translation or
// summarization). BillableUnits is always InputUnits + OutputUnits.
type TextUsage struct {
	InputUnits    int64 `json:"input_units"`
	OutputUnits   int64 `json:"output_units"`
	BillableUnits int64 `json:"billable_units"`
}

// TextCostEstimator prices translation and summarization runs. Each
// target language is billed as an independent downstream request, so the
// total scales linearly in the target count.
type TextCostEstimator struct {
	manifest *pricing.Manifest
}

// NewTextCostEstimator creates an estimator bound to a manifest.
func NewTextCostEstimator(m *pricing.Manifest) *TextCostEstimator {
	return &TextCostEstimator{manifest: m}
}

// EstimateFromContent prices a run from real transcript content.
// targetCount is the number of target languages; summarization passes 1.
func (e *TextCostEstimator) EstimateFromContent(content Content, targetCount int) TextUsage {
	if content == nil {
		return TextUsage{}
	}
	chars := int64(len(content.Normalize()))
	return e.fromChars(chars, targetCount)
}

// EstimateFromDuration prices a run for media whose transcript does not
// exist yet. An expected character count is synthesized from the
// manifest's words-per-minute and characters-per-word heuristics and fed
// through the same formula as EstimateFromContent; the two paths differ
// only in where the input length comes from.
func (e *TextCostEstimator) EstimateFromDuration(durationSeconds float64, targetCount int) TextUsage {
	billable := int64(e.manifest.BillableSeconds(durationSeconds))
	if billable == 0 {
		return TextUsage{}
	}
	chars := pricing.CeilDiv(billable*e.manifest.WordsPerMinute*e.manifest.CharsPerWord, 60)
	return e.fromChars(chars, targetCount)
}

// SyntheticChars exposes the fallback length heuristic so callers can
// report what transcript size the estimate assumed.
func (e *TextCostEstimator) SyntheticChars(durationSeconds float64) int64 {
	billable := int64(e.manifest.BillableSeconds(durationSeconds))
	return pricing.CeilDiv(billable*e.manifest.WordsPerMinute*e.manifest.CharsPerWord, 60)
}

// fromChars is the single cost formula both entry points share.
func (e *TextCostEstimator) fromChars(chars int64, targetCount int) TextUsage {
	if chars <= 0 || targetCount <= 0 {
		return TextUsage{}
	}

	units := pricing.CeilDiv(chars, e.manifest.CharsPerUnit)

	perTargetInput := units + e.manifest.PromptOverhead + e.manifest.PerTargetOverhead
	perTargetOutput := pricing.CeilDiv(units*e.manifest.OutputRatioPct, 100)

	n := int64(targetCount)
	u := TextUsage{
		InputUnits:  n * perTargetInput,
		OutputUnits: n * perTargetOutput,
	}
	u.BillableUnits = u.InputUnits + u.OutputUnits
	return u
}
