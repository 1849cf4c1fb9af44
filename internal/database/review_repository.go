package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordnet/internal/review"
	"github.com/example/wordnet/pkg/models"
)

var (
	_ review.ScheduleStore = (*ReviewRepository)(nil)
	_ review.GradeWriter   = (*ReviewRepository)(nil)
)

// ReviewRepository handles database operations for the review queue
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new repository instance
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// entryRow is the review_queue table layout.
type entryRow struct {
	WordID         string  `db:"word_id"`
	NextReviewTime int64   `db:"next_review_time"`
	IntervalDays   int     `db:"interval_days"`
	EasinessFactor float64 `db:"easiness_factor"`
	Repetitions    int     `db:"repetition_count"`
	State          int     `db:"review_state"`
}

const entryColumns = `word_id, next_review_time, interval_days, easiness_factor, repetition_count, review_state`

func (r entryRow) toModel() models.ReviewEntry {
	return models.ReviewEntry{
		WordID:         r.WordID,
		DueAt:          time.UnixMilli(r.NextReviewTime).UTC(),
		IntervalDays:   r.IntervalDays,
		EasinessFactor: r.EasinessFactor,
		Streak:         r.Repetitions,
		State:          models.ReviewState(r.State),
	}
}

// Get returns the review entry of a word
func (r *ReviewRepository) Get(ctx context.Context, wordID string) (models.ReviewEntry, error) {
	var row entryRow
	query := r.db.Rebind(`SELECT ` + entryColumns + ` FROM review_queue WHERE word_id = ?`)
	err := r.db.GetContext(ctx, &row, query, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReviewEntry{}, fmt.Errorf("review entry %q: %w", wordID, models.ErrNotFound)
	}
	if err != nil {
		return models.ReviewEntry{}, storeErr("get review entry", err)
	}
	return row.toModel(), nil
}

// Upsert replaces the review entry of a word
func (r *ReviewRepository) Upsert(ctx context.Context, e models.ReviewEntry) error {
	return upsertEntry(ctx, r.db, e)
}

// SaveGrade writes a graded word and its new entry in one transaction
func (r *ReviewRepository) SaveGrade(ctx context.Context, w models.Word, e models.ReviewEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("begin grade", err)
	}
	defer tx.Rollback()

	if err := upsertWord(ctx, tx, w); err != nil {
		return err
	}
	if err := upsertEntry(ctx, tx, e); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr("commit grade", err)
	}
	return nil
}

// Delete removes the review entry of a word
func (r *ReviewRepository) Delete(ctx context.Context, wordID string) error {
	query := r.db.Rebind(`DELETE FROM review_queue WHERE word_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, wordID); err != nil {
		return storeErr("delete review entry", err)
	}
	return nil
}

// DeleteAll empties the review queue
func (r *ReviewRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM review_queue`); err != nil {
		return storeErr("clear review queue", err)
	}
	return nil
}

// MarkAllDue makes every entry due at now
func (r *ReviewRepository) MarkAllDue(ctx context.Context, now time.Time) error {
	query := r.db.Rebind(`UPDATE review_queue SET next_review_time = ?`)
	if _, err := r.db.ExecContext(ctx, query, now.UnixMilli()); err != nil {
		return storeErr("reset review queue", err)
	}
	return nil
}

// QueryDue returns up to limit entries of active words due at now, earliest first
func (r *ReviewRepository) QueryDue(ctx context.Context, now time.Time, limit int) ([]models.ReviewEntry, error) {
	query := r.db.Rebind(`
		SELECT q.word_id, q.next_review_time, q.interval_days, q.easiness_factor, q.repetition_count, q.review_state
		FROM review_queue q
		JOIN words w ON w.word = q.word_id
		WHERE q.next_review_time <= ?
		AND w.is_active = ?
		ORDER BY q.next_review_time ASC, q.word_id ASC
		LIMIT ?
	`)
	var rows []entryRow
	if err := r.db.SelectContext(ctx, &rows, query, now.UnixMilli(), true, limit); err != nil {
		return nil, storeErr("get due entries", err)
	}
	entries := make([]models.ReviewEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toModel())
	}
	return entries, nil
}

// CountDue returns the number of active words due at now
func (r *ReviewRepository) CountDue(ctx context.Context, now time.Time) (int, error) {
	query := r.db.Rebind(`
		SELECT COUNT(*)
		FROM review_queue q
		JOIN words w ON w.word = q.word_id
		WHERE q.next_review_time <= ?
		AND w.is_active = ?
	`)
	var count int
	if err := r.db.GetContext(ctx, &count, query, now.UnixMilli(), true); err != nil {
		return 0, storeErr("count due entries", err)
	}
	return count, nil
}

func upsertEntry(ctx context.Context, q sqlx.ExtContext, e models.ReviewEntry) error {
	query := q.Rebind(`
		INSERT INTO review_queue (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (word_id) DO UPDATE SET
			next_review_time = excluded.next_review_time,
			interval_days = excluded.interval_days,
			easiness_factor = excluded.easiness_factor,
			repetition_count = excluded.repetition_count,
			review_state = excluded.review_state
	`)
	_, err := q.ExecContext(ctx, query,
		e.WordID,
		e.DueAt.UnixMilli(),
		e.IntervalDays,
		e.EasinessFactor,
		e.Streak,
		int(e.State),
	)
	if err != nil {
		return storeErr("upsert review entry", err)
	}
	return nil
}
