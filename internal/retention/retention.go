// Package retention maintains the display-only memory strength of a word.
//
// Strength ranks weak words and colors the word list. It is independent of the
// SM-2 easiness factor and never decides when a word is due.
package retention

import (
	"math"
	"time"

	"github.com/example/wordnet/pkg/models"
)

const (
	correctGain    = 0.3
	incorrectLoss  = -0.1
	earlyReviews   = 3
	earlyBoost     = 1.5
	dampingWeight  = 0.5
	masteredAt     = 0.8
	maxBaseDays    = 15
	cappedAtReview = 5
)

// ApplyOutcome returns w updated by one graded review.
func ApplyOutcome(w models.Word, wasCorrect bool, now time.Time) models.Word {
	n := w.ReviewCount + 1

	base := incorrectLoss
	if wasCorrect {
		base = correctGain
	}
	multiplier := 1.0
	if n <= earlyReviews {
		multiplier = earlyBoost
	}
	// Applied to losses too, so strong words also lose less.
	damping := 1.0 - dampingWeight*w.Strength

	w.Strength = clamp(w.Strength+base*multiplier*damping, 0, 1)
	w.ReviewCount = n
	w.LastReviewedAt = now
	return w
}

// IsMastered reports whether the word is considered learned.
func IsMastered(w models.Word) bool {
	return w.Strength >= masteredAt
}

// EstimateNextReviewTime is the forgetting-curve estimate shown next to a word.
// It is informational only: due-ness comes from the SM-2 entry.
func EstimateNextReviewTime(w models.Word) time.Time {
	days := baseInterval(w.ReviewCount) * (1 + 2*w.Strength)
	return w.LastReviewedAt.Add(time.Duration(days * float64(24*time.Hour)))
}

func baseInterval(n int) float64 {
	if n < cappedAtReview {
		return math.Pow(2, float64(n))
	}
	return maxBaseDays
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
