package estimate

import "strings"

// Content is the source text a translation or summarization run is
// priced against. It arrives in one of three shapes, each with its own
// normalization rule. Dispatch is explicit on the concrete type, never
// structural sniffing.
type Content interface {
	// Normalize flattens the content to a single whitespace-collapsed
	// plain-text string.
	Normalize() string
}

// Text is already-plain transcript text.
type Text string

// Normalize collapses runs of whitespace to single spaces.
func (t Text) Normalize() string {
	return strings.Join(strings.Fields(string(t)), " ")
}

// Segment is one timed span of a transcript.
type Segment struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Text     string  `json:"text"`
}

// Segments is a list of timed transcript spans.
type Segments []Segment

// Normalize joins non-empty segment texts with single spaces.
func (s Segments) Normalize() string {
	parts := make([]string, 0, len(s))
	for _, seg := range s {
		if t := strings.Join(strings.Fields(seg.Text), " "); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// SubtitleDoc is a raw subtitle document (SRT or WebVTT). Only the cue
// text lines carry billable content; indexes, timecodes, and headers
// are stripped.
type SubtitleDoc string

// Normalize keeps subtitle text lines and drops cue indexes, timecode
// lines, and the WEBVTT header block.
func (d SubtitleDoc) Normalize() string {
	var parts []string
	for _, line := range strings.Split(string(d), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.Contains(line, "-->"):
		case isCueIndex(line):
		case strings.HasPrefix(line, "WEBVTT"):
		case strings.HasPrefix(line, "NOTE"):
		default:
			parts = append(parts, strings.Join(strings.Fields(line), " "))
		}
	}
	return strings.Join(parts, " ")
}

func isCueIndex(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(line) > 0
}
