package estimate

import "testing"

func f64(v float64) *float64 { return &v }

func TestResolveDuration_Priority(t *testing.T) {
	segs := Segments{{StartSec: 0, EndSec: 90, Text: "hi"}}

	t.Run("probe wins", func(t *testing.T) {
		secs, source, ok := ResolveDuration(ItemDurationSources(f64(120), segs, f64(300))...)
		if !ok || secs != 120 || source != "probe" {
			t.Errorf("got (%v, %q, %v), want (120, probe, true)", secs, source, ok)
		}
	})

	t.Run("segments next", func(t *testing.T) {
		secs, source, ok := ResolveDuration(ItemDurationSources(nil, segs, f64(300))...)
		if !ok || secs != 90 || source != "segments" {
			t.Errorf("got (%v, %q, %v), want (90, segments, true)", secs, source, ok)
		}
	})

	t.Run("hint last", func(t *testing.T) {
		secs, source, ok := ResolveDuration(ItemDurationSources(nil, nil, f64(300))...)
		if !ok || secs != 300 || source != "hint" {
			t.Errorf("got (%v, %q, %v), want (300, hint, true)", secs, source, ok)
		}
	})

	t.Run("nothing resolvable", func(t *testing.T) {
		_, _, ok := ResolveDuration(ItemDurationSources(nil, nil, nil)...)
		if ok {
			t.Error("expected ok=false with no sources")
		}
	})
}

func TestResolveDuration_SkipsNonPositive(t *testing.T) {
	// A probed zero means "probe ran but learned nothing"; fall through.
	secs, source, ok := ResolveDuration(ItemDurationSources(f64(0), nil, f64(45))...)
	if !ok || secs != 45 || source != "hint" {
		t.Errorf("got (%v, %q, %v), want (45, hint, true)", secs, source, ok)
	}

	secs, source, ok = ResolveDuration(ItemDurationSources(f64(-10), nil, f64(45))...)
	if !ok || secs != 45 || source != "hint" {
		t.Errorf("got (%v, %q, %v), want (45, hint, true)", secs, source, ok)
	}
}
