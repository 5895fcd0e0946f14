package pricing

import "math"

// BillableSeconds converts a raw media duration into billable seconds.
//
// Durations of zero or less are free. Anything else is rounded up to a
// whole second, then up to the next multiple of quantumSeconds, then
// clamped to at least minBillableSeconds. The result is monotonic
// nondecreasing in rawSeconds.
func BillableSeconds(rawSeconds float64, quantumSeconds, minBillableSeconds int) int {
	if rawSeconds <= 0 {
		return 0
	}

	secs := int(math.Ceil(rawSeconds))

	if quantumSeconds > 1 {
		if rem := secs % quantumSeconds; rem != 0 {
			secs += quantumSeconds - rem
		}
	}

	if secs < minBillableSeconds {
		secs = minBillableSeconds
	}

	return secs
}

// CeilDiv returns ceil(a / b) for non-negative a and positive b.
func CeilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
