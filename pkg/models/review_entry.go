package models

import (
	"fmt"
	"time"
)

// ReviewState is the persisted state of a schedule entry.
type ReviewState int

const (
	// Pending is the only persisted state today.
	Pending ReviewState = 0
)

func (s ReviewState) String() string {
	if s == Pending {
		return "PENDING"
	}
	return fmt.Sprintf("ReviewState(%d)", int(s))
}

// ReviewEntry is the SM-2 schedule of one word. There is exactly one per word.
type ReviewEntry struct {
	WordID         string      `json:"word_id" db:"word_id"`
	DueAt          time.Time   `json:"due_at" db:"-"`
	IntervalDays   int         `json:"interval_days" db:"interval_days"`
	EasinessFactor float64     `json:"easiness_factor" db:"easiness_factor"`
	Streak         int         `json:"repetition_count" db:"repetition_count"`
	State          ReviewState `json:"review_state" db:"review_state"`
}

// IsDue reports whether the entry is due at now.
func (e ReviewEntry) IsDue(now time.Time) bool {
	return !now.Before(e.DueAt)
}
