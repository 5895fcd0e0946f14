package estimate

import (
	"errors"
	"strings"
	"testing"

	"mediameter/internal/pricing"
)

func TestEstimator_TranscriptionRun(t *testing.T) {
	e := New(pricing.Default())

	items := []TranscriptionItem{
		{DurationSeconds: 125, ModelID: "scribe-standard"},
		{DurationSeconds: 60},
	}
	est := e.TranscriptionRun(items, "scribe-standard")

	if est.Service != ServiceTranscription {
		t.Errorf("Service = %q, want transcription", est.Service)
	}
	if est.BillableUnits != 83 {
		t.Errorf("BillableUnits = %d, want 83", est.BillableUnits)
	}
	// 83 units at 50000 cents/M: ceil(4.15) = 5 cents, 5 media tokens
	if est.USDCents != 5 {
		t.Errorf("USDCents = %d, want 5", est.USDCents)
	}
	if est.MediaTokens != 5 {
		t.Errorf("MediaTokens = %d, want 5", est.MediaTokens)
	}
	if est.Breakdown["items"] != 2 {
		t.Errorf("Breakdown[items] = %d, want 2", est.Breakdown["items"])
	}
}

func TestEstimator_TranslationRun_ContentWinsOverDuration(t *testing.T) {
	e := New(pricing.Default())

	withContent, err := e.TranslationRun(Text("abcd"), 600, 1)
	if err != nil {
		t.Fatalf("TranslationRun: %v", err)
	}
	contentOnly, err := e.TranslationRun(Text("abcd"), 0, 1)
	if err != nil {
		t.Fatalf("TranslationRun: %v", err)
	}

	if withContent.BillableUnits != contentOnly.BillableUnits {
		t.Errorf("duration leaked into content estimate: %d != %d",
			withContent.BillableUnits, contentOnly.BillableUnits)
	}
	if _, ok := withContent.Breakdown["input_chars"]; !ok {
		t.Error("expected input_chars in breakdown for the content path")
	}
}

func TestEstimator_TranslationRun_DurationFallback(t *testing.T) {
	e := New(pricing.Default())

	est, err := e.TranslationRun(nil, 60, 2)
	if err != nil {
		t.Fatalf("TranslationRun: %v", err)
	}
	if est.BillableUnits != 2*838 {
		t.Errorf("BillableUnits = %d, want %d", est.BillableUnits, 2*838)
	}
	if est.Breakdown["synthetic_chars"] != 900 {
		t.Errorf("Breakdown[synthetic_chars] = %d, want 900", est.Breakdown["synthetic_chars"])
	}

	// Whitespace-only content is no content; the fallback applies.
	fromBlank, err := e.TranslationRun(Text("  \n "), 60, 2)
	if err != nil {
		t.Fatalf("TranslationRun: %v", err)
	}
	if fromBlank.BillableUnits != est.BillableUnits {
		t.Errorf("blank content priced %d, want fallback %d", fromBlank.BillableUnits, est.BillableUnits)
	}
}

func TestEstimator_TranslationRun_NoInput(t *testing.T) {
	e := New(pricing.Default())

	_, err := e.TranslationRun(nil, 0, 1)
	if !errors.Is(err, ErrEstimationUnavailable) {
		t.Errorf("err = %v, want ErrEstimationUnavailable", err)
	}

	_, err = e.TranslationRun(Text(""), -5, 3)
	if !errors.Is(err, ErrEstimationUnavailable) {
		t.Errorf("err = %v, want ErrEstimationUnavailable", err)
	}
}

func TestEstimator_SummarizationRun_SingleTarget(t *testing.T) {
	e := New(pricing.Default())
	content := Text(strings.Repeat("x", 400))

	summary, err := e.SummarizationRun(content, 0)
	if err != nil {
		t.Fatalf("SummarizationRun: %v", err)
	}
	translation, err := e.TranslationRun(content, 0, 1)
	if err != nil {
		t.Fatalf("TranslationRun: %v", err)
	}

	if summary.BillableUnits != translation.BillableUnits {
		t.Errorf("summarization %d != single-target translation %d",
			summary.BillableUnits, translation.BillableUnits)
	}
	if summary.Service != ServiceSummarization {
		t.Errorf("Service = %q, want summarization", summary.Service)
	}
}

// Both actors must price identically from the same manifest, so the
// whole pipeline has to be deterministic.
func TestEstimator_Deterministic(t *testing.T) {
	e1 := New(pricing.Default())
	e2 := New(pricing.Default())

	content := SubtitleDoc("1\n00:00:01,000 --> 00:00:03,000\nSame input, same price.\n")

	a, err := e1.TranslationRun(content, 0, 3)
	if err != nil {
		t.Fatalf("TranslationRun: %v", err)
	}
	b, err := e2.TranslationRun(content, 0, 3)
	if err != nil {
		t.Fatalf("TranslationRun: %v", err)
	}

	if a.BillableUnits != b.BillableUnits || a.USDCents != b.USDCents || a.MediaTokens != b.MediaTokens {
		t.Errorf("independent estimators disagree: %+v vs %+v", a, b)
	}
}
