// Package review schedules words for spaced repetition and drives review sessions.
package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/example/wordnet/internal/retention"
	"github.com/example/wordnet/internal/spaced_repetition"
	"github.com/example/wordnet/pkg/models"
)

// Engine coordinates the word store, the schedule store and the SM-2 scheduler.
//
// Queue-wide rewrites (Reconcile, Rebuild, Reset) hold an exclusive lock, so no
// session reads a partially rebuilt queue.
type Engine struct {
	items     ItemStore
	schedules ScheduleStore
	grades    GradeWriter
	sm2       *spaced_repetition.SM2
	now       func() time.Time

	mu sync.RWMutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSM2 replaces the default SM-2 parameters.
func WithSM2(sm *spaced_repetition.SM2) Option {
	return func(e *Engine) { e.sm2 = sm }
}

// NewEngine creates an engine over the given stores. If schedules also
// implements GradeWriter, grades are persisted in one transaction.
func NewEngine(items ItemStore, schedules ScheduleStore, opts ...Option) *Engine {
	e := &Engine{
		items:     items,
		schedules: schedules,
		sm2:       spaced_repetition.NewSM2(),
		now:       time.Now,
	}
	if gw, ok := schedules.(GradeWriter); ok {
		e.grades = gw
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddWord stores a new word and schedules it for immediate review.
// Adding an archived word reactivates it and keeps its schedule if one exists.
// A non-empty meaning or morpheme list replaces the stored one.
func (e *Engine) AddWord(ctx context.Context, w models.Word) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	now := e.now()
	existing, err := e.items.Get(ctx, w.ID)
	switch {
	case err == nil && existing.Active:
		return fmt.Errorf("word %q: %w", w.ID, models.ErrAlreadyExists)
	case err == nil:
		existing.Active = true
		if w.Meaning != "" {
			existing.Meaning = w.Meaning
		}
		if len(w.Morphemes) > 0 {
			existing.Morphemes = w.Morphemes
		}
		if err := e.items.Upsert(ctx, existing); err != nil {
			return err
		}
		return e.ensureEntry(ctx, existing.ID, now)
	case !errors.Is(err, models.ErrNotFound):
		return err
	}

	w.Active = true
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	if w.LastReviewedAt.IsZero() {
		w.LastReviewedAt = w.CreatedAt
	}
	if w.Morphemes == nil {
		w.Morphemes = []string{}
	}
	if err := e.items.Upsert(ctx, w); err != nil {
		return err
	}
	return e.schedules.Upsert(ctx, e.sm2.CreateInitial(w.ID, now))
}

// ArchiveWord soft-deletes a word and drops its schedule entry.
func (e *Engine) ArchiveWord(ctx context.Context, id string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.items.Get(ctx, id); err != nil {
		return err
	}
	if err := e.items.SoftDelete(ctx, id); err != nil {
		return err
	}
	return e.schedules.Delete(ctx, id)
}

// ensureEntry creates the initial entry for id unless one exists.
func (e *Engine) ensureEntry(ctx context.Context, id string, now time.Time) error {
	_, err := e.schedules.Get(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return e.schedules.Upsert(ctx, e.sm2.CreateInitial(id, now))
}

// Reconcile gives every active word exactly one schedule entry without
// touching entries that already exist. It returns the number created.
func (e *Engine) Reconcile(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	words, err := e.items.GetAllActive(ctx)
	if err != nil {
		return 0, err
	}
	now := e.now()
	created := 0
	for _, w := range words {
		_, err := e.schedules.Get(ctx, w.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return created, err
		}
		if err := e.schedules.Upsert(ctx, e.sm2.CreateInitial(w.ID, now)); err != nil {
			return created, err
		}
		created++
	}
	log.Printf("Review queue reconciled: %d of %d active words needed an entry", created, len(words))
	return created, nil
}

// Rebuild discards all schedule progress and schedules every active word for
// immediate review. It is a recovery operation.
func (e *Engine) Rebuild(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	words, err := e.items.GetAllActive(ctx)
	if err != nil {
		return 0, err
	}
	if err := e.schedules.DeleteAll(ctx); err != nil {
		return 0, err
	}
	now := e.now()
	for i, w := range words {
		if err := e.schedules.Upsert(ctx, e.sm2.CreateInitial(w.ID, now)); err != nil {
			return i, err
		}
	}
	log.Printf("Review queue rebuilt with %d words", len(words))
	return len(words), nil
}

// Reset makes every schedule entry due now.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.schedules.MarkAllDue(ctx, e.now())
}

// CheckIntegrity returns an *models.IntegrityError naming every active word
// without a schedule entry. It never creates entries.
func (e *Engine) CheckIntegrity(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	words, err := e.items.GetAllActive(ctx)
	if err != nil {
		return err
	}
	var missing []string
	for _, w := range words {
		_, err := e.schedules.Get(ctx, w.ID)
		if errors.Is(err, models.ErrNotFound) {
			missing = append(missing, w.ID)
			continue
		}
		if err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		ierr := &models.IntegrityError{WordIDs: missing}
		log.Printf("Warning: %v", ierr)
		return ierr
	}
	return nil
}

// DueCount returns how many active words are due now.
func (e *Engine) DueCount(ctx context.Context) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.schedules.CountDue(ctx, e.now())
}

// SelectWeakest returns up to limit active words, weakest first.
// Ties are ordered by word.
func (e *Engine) SelectWeakest(ctx context.Context, limit int) ([]models.Word, error) {
	if limit <= 0 {
		return []models.Word{}, nil
	}
	words, err := e.items.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(words, func(i, j int) bool {
		if words[i].Strength != words[j].Strength {
			return words[i].Strength < words[j].Strength
		}
		return words[i].ID < words[j].ID
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words, nil
}

// WordsByRoot returns the active words built on root.
func (e *Engine) WordsByRoot(ctx context.Context, root string) ([]models.Word, error) {
	words, err := e.items.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}
	matched := []models.Word{}
	for _, w := range words {
		if w.HasMorpheme(root) {
			matched = append(matched, w)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

// Statistics summarizes the active collection.
func (e *Engine) Statistics(ctx context.Context) (models.Statistics, error) {
	words, err := e.items.GetAllActive(ctx)
	if err != nil {
		return models.Statistics{}, err
	}
	due, err := e.DueCount(ctx)
	if err != nil {
		return models.Statistics{}, err
	}

	stats := models.Statistics{WordCount: len(words), DueCount: due}
	byRoot := map[string]*models.RootStatistic{}
	for _, w := range words {
		if retention.IsMastered(w) {
			stats.MasteredCount++
		}
		for _, m := range w.Morphemes {
			rs, ok := byRoot[m]
			if !ok {
				rs = &models.RootStatistic{Morpheme: m}
				byRoot[m] = rs
			}
			// Running sum, divided below.
			rs.WordCount++
			rs.AvgStrength += w.Strength
		}
	}
	stats.Roots = make([]models.RootStatistic, 0, len(byRoot))
	for _, rs := range byRoot {
		rs.AvgStrength /= float64(rs.WordCount)
		stats.Roots = append(stats.Roots, *rs)
	}
	sort.Slice(stats.Roots, func(i, j int) bool {
		if stats.Roots[i].WordCount != stats.Roots[j].WordCount {
			return stats.Roots[i].WordCount > stats.Roots[j].WordCount
		}
		return stats.Roots[i].Morpheme < stats.Roots[j].Morpheme
	})
	return stats, nil
}

// Progress lists every active word with its schedule, weakest first.
func (e *Engine) Progress(ctx context.Context) ([]models.Progress, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	words, err := e.items.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].Strength < words[j].Strength })

	progress := make([]models.Progress, 0, len(words))
	var missing []string
	for _, w := range words {
		entry, err := e.schedules.Get(ctx, w.ID)
		if errors.Is(err, models.ErrNotFound) {
			missing = append(missing, w.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		progress = append(progress, models.Progress{
			Word:            w,
			Entry:           entry,
			EstimatedReview: retention.EstimateNextReviewTime(w),
		})
	}
	if len(missing) > 0 {
		return nil, &models.IntegrityError{WordIDs: missing}
	}
	return progress, nil
}

// nextDue loads the earliest due active word. ok is false when nothing is due.
func (e *Engine) nextDue(ctx context.Context) (w models.Word, ok bool, err error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entries, err := e.schedules.QueryDue(ctx, e.now(), 1)
	if err != nil {
		return models.Word{}, false, err
	}
	if len(entries) == 0 {
		return models.Word{}, false, nil
	}
	w, err = e.items.Get(ctx, entries[0].WordID)
	if err != nil {
		return models.Word{}, false, fmt.Errorf("word for due entry %q: %w", entries[0].WordID, err)
	}
	return w, true, nil
}

// grade applies quality to w and its entry and persists both. The word is
// written before the entry when the store has no transactions.
func (e *Engine) grade(ctx context.Context, w models.Word, quality spaced_repetition.QualityResponse) (models.Word, models.ReviewEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entry, err := e.schedules.Get(ctx, w.ID)
	if errors.Is(err, models.ErrNotFound) {
		ierr := &models.IntegrityError{WordIDs: []string{w.ID}}
		log.Printf("Warning: %v", ierr)
		return models.Word{}, models.ReviewEntry{}, ierr
	}
	if err != nil {
		return models.Word{}, models.ReviewEntry{}, err
	}

	now := e.now()
	updated := retention.ApplyOutcome(w, quality.Passed(), now)
	next := e.sm2.Advance(entry, quality, now)

	if e.grades != nil {
		if err := e.grades.SaveGrade(ctx, updated, next); err != nil {
			return models.Word{}, models.ReviewEntry{}, err
		}
		return updated, next, nil
	}
	if err := e.items.Upsert(ctx, updated); err != nil {
		return models.Word{}, models.ReviewEntry{}, err
	}
	if err := e.schedules.Upsert(ctx, next); err != nil {
		return models.Word{}, models.ReviewEntry{}, err
	}
	return updated, next, nil
}
