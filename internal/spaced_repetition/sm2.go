package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/wordnet/pkg/models"
)

const (
	// DefaultEasiness is the easiness factor of a new entry.
	DefaultEasiness = 2.5
	// MinEasiness is the floor of the easiness factor.
	MinEasiness = 1.3
	// IntervalLimit bounds every interval in days, even when MaxInterval is 0.
	IntervalLimit = 36500
)

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// Clamp forces q into [0,5].
func (q QualityResponse) Clamp() QualityResponse {
	if q < QualityBlackout {
		return QualityBlackout
	}
	if q > QualityPerfect {
		return QualityPerfect
	}
	return q
}

// Passed reports whether q counts as a successful recall.
func (q QualityResponse) Passed() bool {
	return q.Clamp() >= QualityCorrectDifficult
}

// SM2 implements the SuperMemo-2 algorithm for spaced repetition
type SM2 struct {
	// Fixed intervals for the first successful repetitions, indexed by streak-1
	InitialIntervals []int
	// Maximum interval in days, 0 means uncapped
	MaxInterval int
}

// NewSM2 returns the canonical SM-2 schedule: 1 day, then 6 days, then interval*EF.
func NewSM2() *SM2 {
	return &SM2{
		InitialIntervals: []int{1, 6},
	}
}

// CreateInitial returns the entry for a freshly added word, due immediately.
func (sm *SM2) CreateInitial(wordID string, now time.Time) models.ReviewEntry {
	return models.ReviewEntry{
		WordID:         wordID,
		DueAt:          now,
		IntervalDays:   1,
		EasinessFactor: DefaultEasiness,
		Streak:         0,
		State:          models.Pending,
	}
}

// NextEasiness applies the SM-2 easiness update and the 1.3 floor.
func NextEasiness(ef float64, quality QualityResponse) float64 {
	d := float64(5 - quality.Clamp())
	newEF := ef + (0.1 - d*(0.08+d*0.02))
	if newEF < MinEasiness {
		newEF = MinEasiness
	}
	return newEF
}

// Advance grades entry with quality and returns the replacement entry.
// The input entry is not modified.
func (sm *SM2) Advance(entry models.ReviewEntry, quality QualityResponse, now time.Time) models.ReviewEntry {
	quality = quality.Clamp()
	newEF := NextEasiness(entry.EasinessFactor, quality)

	var streak, interval int
	if quality < QualityCorrectDifficult {
		// Forgotten: start over tomorrow
		streak = 0
		interval = 1
	} else {
		streak = entry.Streak + 1
		if streak <= len(sm.InitialIntervals) {
			interval = sm.InitialIntervals[streak-1]
		} else {
			next := math.Round(float64(entry.IntervalDays) * newEF)
			if next > IntervalLimit {
				next = IntervalLimit
			}
			interval = int(next)
		}
		if interval > IntervalLimit {
			interval = IntervalLimit
		}
		if sm.MaxInterval > 0 && interval > sm.MaxInterval {
			interval = sm.MaxInterval
		}
		if interval < 1 {
			interval = 1
		}
	}

	return models.ReviewEntry{
		WordID:         entry.WordID,
		DueAt:          now.AddDate(0, 0, interval),
		IntervalDays:   interval,
		EasinessFactor: newEF,
		Streak:         streak,
		State:          models.Pending,
	}
}

// Description returns a short label for the grades the review prompt offers.
func (q QualityResponse) Description() string {
	switch q {
	case QualityBlackout:
		return "forgot"
	case QualityCorrectDifficult:
		return "hard"
	case QualityCorrectHesitation:
		return "good"
	case QualityPerfect:
		return "perfect"
	default:
		return "unknown"
	}
}
