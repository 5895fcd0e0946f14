package estimate

import (
	"errors"

	"mediameter/internal/pricing"
)

// ErrEstimationUnavailable means no usable input (duration or text)
// exists yet. Callers surface this as "unknown" and let the action
// proceed to a server-side estimate; it is never a blocking failure.
var ErrEstimationUnavailable = errors.New("estimation unavailable: no duration or text input")

// Service identifies which processing pipeline a run targets.
type Service string

const (
	ServiceTranscription Service = "transcription"
	ServiceTranslation   Service = "translation"
	ServiceSummarization Service = "summarization"
)

// UsageEstimate is the full result of pricing one run. It has no
// identity and is never persisted; it is recomputed on every request.
type UsageEstimate struct {
	Service       Service          `json:"service"`
	InputUnits    int64            `json:"input_units"`
	OutputUnits   int64            `json:"output_units"`
	BillableUnits int64            `json:"billable_units"`
	USDCents      int64            `json:"usd_cents"`
	MediaTokens   int64            `json:"media_tokens"`
	Breakdown     map[string]int64 `json:"breakdown,omitempty"`
}

// Estimator bundles the per-service estimators behind one manifest so
// callers price any run with a single value. It is immutable and safe
// for concurrent use.
type Estimator struct {
	manifest      *pricing.Manifest
	transcription *TranscriptionEstimator
	textCost      *TextCostEstimator
	converter     *Converter
}

// New creates an Estimator bound to a manifest.
func New(m *pricing.Manifest) *Estimator {
	return &Estimator{
		manifest:      m,
		transcription: NewTranscriptionEstimator(m),
		textCost:      NewTextCostEstimator(m),
		converter:     NewConverter(m),
	}
}

// Manifest returns the manifest this estimator prices against.
func (e *Estimator) Manifest() *pricing.Manifest { return e.manifest }

// Converter returns the currency converter bound to the manifest.
func (e *Estimator) Converter() *Converter { return e.converter }

// TranscriptionRun prices a transcription run.
func (e *Estimator) TranscriptionRun(items []TranscriptionItem, defaultModelID string) UsageEstimate {
	units := e.transcription.EstimateRun(items, defaultModelID)
	return e.finish(ServiceTranscription, TextUsage{InputUnits: units, BillableUnits: units}, map[string]int64{
		"items":            int64(len(items)),
		"per_run_overhead": e.manifest.PerRunOverhead,
	})
}

// TranslationRun prices a translation run. Real content wins over the
// duration fallback; with neither, ErrEstimationUnavailable is returned.
func (e *Estimator) TranslationRun(content Content, durationSeconds float64, targetCount int) (UsageEstimate, error) {
	return e.textRun(ServiceTranslation, content, durationSeconds, targetCount)
}

// SummarizationRun prices a summarization run: a single downstream
// request, so the target count is implicitly 1.
func (e *Estimator) SummarizationRun(content Content, durationSeconds float64) (UsageEstimate, error) {
	return e.textRun(ServiceSummarization, content, durationSeconds, 1)
}

func (e *Estimator) textRun(svc Service, content Content, durationSeconds float64, targetCount int) (UsageEstimate, error) {
	breakdown := map[string]int64{"targets": int64(targetCount)}

	var usage TextUsage
	switch {
	case content != nil && len(content.Normalize()) > 0:
		usage = e.textCost.EstimateFromContent(content, targetCount)
		breakdown["input_chars"] = int64(len(content.Normalize()))
	case durationSeconds > 0:
		usage = e.textCost.EstimateFromDuration(durationSeconds, targetCount)
		breakdown["synthetic_chars"] = e.textCost.SyntheticChars(durationSeconds)
	default:
		return UsageEstimate{}, ErrEstimationUnavailable
	}

	return e.finish(svc, usage, breakdown), nil
}

func (e *Estimator) finish(svc Service, usage TextUsage, breakdown map[string]int64) UsageEstimate {
	cents := e.converter.USDCentsFromUnits(usage.BillableUnits)
	return UsageEstimate{
		Service:       svc,
		InputUnits:    usage.InputUnits,
		OutputUnits:   usage.OutputUnits,
		BillableUnits: usage.BillableUnits,
		USDCents:      cents,
		MediaTokens:   e.converter.MediaTokensFromUSDCents(cents),
		Breakdown:     breakdown,
	}
}
