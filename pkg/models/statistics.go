package models

import "time"

// RootStatistic summarizes the active words sharing one morpheme.
type RootStatistic struct {
	Morpheme    string  `json:"morpheme"`
	WordCount   int     `json:"word_count"`
	AvgStrength float64 `json:"avg_strength"`
}

// Statistics is a snapshot of the learner's collection.
type Statistics struct {
	WordCount     int             `json:"word_count"`
	MasteredCount int             `json:"mastered_count"`
	DueCount      int             `json:"due_count"`
	Roots         []RootStatistic `json:"roots"`
}

// Progress pairs a word with its schedule for reporting.
type Progress struct {
	Word  Word
	Entry ReviewEntry
	// EstimatedReview is the forgetting-curve estimate. It never decides due-ness.
	EstimatedReview time.Time
}
