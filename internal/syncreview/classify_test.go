package syncreview_test

import (
	"math"
	"testing"

	"slate/internal/syncreview"
)

func TestClassifyThresholds(t *testing.T) {
	cases := []struct {
		confidence float64
		want       syncreview.Classification
	}{
		{15, syncreview.LooksGood},
		{10, syncreview.LooksGood},
		{9.99, syncreview.ReviewSuggested},
		{5, syncreview.ReviewSuggested},
		{4.99, syncreview.NeedsManualNudge},
		{0, syncreview.NeedsManualNudge},
		{-1, syncreview.NeedsManualNudge},
	}
	for _, tc := range cases {
		if got := syncreview.Classify(tc.confidence); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.confidence, got, tc.want)
		}
	}
}

func TestClassifyFailsSafeOnMalformedScores(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := syncreview.Classify(v); got != syncreview.NeedsManualNudge {
			t.Errorf("Classify(%v) = %s, want needs-manual-nudge", v, got)
		}
	}
}
