package estimate

import "testing"

func TestText_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Text
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"collapses whitespace", "hello \t\n  world ", "hello world"},
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegments_Normalize(t *testing.T) {
	segs := Segments{
		{StartSec: 0, EndSec: 2, Text: "hello  there"},
		{StartSec: 2, EndSec: 4, Text: "   "},
		{StartSec: 4, EndSec: 6, Text: "general\nkenobi"},
	}

	if got, want := segs.Normalize(), "hello there general kenobi"; got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}

	if got := (Segments{}).Normalize(); got != "" {
		t.Errorf("empty segments = %q, want empty", got)
	}
}

func TestSubtitleDoc_Normalize_SRT(t *testing.T) {
	doc := SubtitleDoc(`1
00:00:01,000 --> 00:00:03,000
Hello there.

2
00:00:03,500 --> 00:00:05,000
General Kenobi!
`)

	if got, want := doc.Normalize(), "Hello there. General Kenobi!"; got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestSubtitleDoc_Normalize_WebVTT(t *testing.T) {
	doc := SubtitleDoc(`WEBVTT

NOTE a comment line

00:01.000 --> 00:04.000
Never gonna give you up

00:05.000 --> 00:09.000
Never gonna let you down
`)

	want := "Never gonna give you up Never gonna let you down"
	if got := doc.Normalize(); got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestSubtitleDoc_Normalize_KeepsNumericDialogue(t *testing.T) {
	// A line that merely contains digits is dialogue; only pure-digit
	// lines are cue indexes.
	doc := SubtitleDoc(`1
00:00:01,000 --> 00:00:03,000
Route 66 is calling
`)

	if got, want := doc.Normalize(), "Route 66 is calling"; got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}
