package models

import "time"

// Word is a learnable item. The word itself is its stable key.
type Word struct {
	ID             string    `json:"word" db:"word"`
	Meaning        string    `json:"meaning" db:"meaning"`
	Morphemes      []string  `json:"morphemes" db:"-"`
	Strength       float64   `json:"memory_strength" db:"memory_strength"` // 0..1, display only
	ReviewCount    int       `json:"review_count" db:"review_count"`
	LastReviewedAt time.Time `json:"last_reviewed_at" db:"-"`
	Active         bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"-"`
}

// NewWord returns an active word with zero strength, reviewed "now".
func NewWord(id string, now time.Time) Word {
	return Word{
		ID:             id,
		Morphemes:      []string{},
		LastReviewedAt: now,
		Active:         true,
		CreatedAt:      now,
	}
}

// HasMorpheme reports whether root is one of the word's morphemes.
func (w Word) HasMorpheme(root string) bool {
	for _, m := range w.Morphemes {
		if m == root {
			return true
		}
	}
	return false
}
