package estimate

// DurationSource is one named candidate value for a media item's
// duration. Seconds is nil when the source has no value.
type DurationSource struct {
	Name    string
	Seconds *float64
}

// ResolveDuration returns the first defined, positive duration from the
// given sources and the name of the source that supplied it. Sources are
// consulted strictly in the order given; callers use ItemDurationSources
// to build the canonical ordering.
func ResolveDuration(sources ...DurationSource) (float64, string, bool) {
	for _, src := range sources {
		if src.Seconds != nil && *src.Seconds > 0 {
			return *src.Seconds, src.Name, true
		}
	}
	return 0, "", false
}

// ItemDurationSources builds the canonical priority list for a media
// item. The contract, in order:
//
//  1. "probe": duration probed from the media container itself
//  2. "segments": end timestamp of the last transcript segment
//  3. "hint": duration reported by the client at upload time
//
// Probed metadata wins because it is measured; segment ends only cover
// transcribed audio; the client hint is unverified and consulted last.
func ItemDurationSources(probed *float64, segments Segments, hint *float64) []DurationSource {
	var segEnd *float64
	if n := len(segments); n > 0 && segments[n-1].EndSec > 0 {
		v := segments[n-1].EndSec
		segEnd = &v
	}
	return []DurationSource{
		{Name: "probe", Seconds: probed},
		{Name: "segments", Seconds: segEnd},
		{Name: "hint", Seconds: hint},
	}
}
