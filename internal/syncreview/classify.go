package syncreview

import "math"

// Classification buckets a computed alignment by how much operator attention
// it needs. Thresholds are part of the review contract: scores at or above
// ConfidentScore play back untouched, scores at or above ReviewScore get a
// visual check, anything lower needs hands-on adjustment.
type Classification string

const (
	LooksGood        Classification = "looks-good"
	ReviewSuggested  Classification = "review-suggested"
	NeedsManualNudge Classification = "needs-manual-nudge"
)

const (
	ConfidentScore = 10.0
	ReviewScore    = 5.0
)

// Classify maps a sync confidence score to its review bucket. Malformed
// scores (NaN, infinities) fail safe into the manual bucket so a broken
// detector can never wave a session through.
func Classify(confidence float64) Classification {
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		return NeedsManualNudge
	}
	switch {
	case confidence >= ConfidentScore:
		return LooksGood
	case confidence >= ReviewScore:
		return ReviewSuggested
	default:
		return NeedsManualNudge
	}
}
