package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordnet/internal/review"
	"github.com/example/wordnet/pkg/models"
)

var _ review.ItemStore = (*WordRepository)(nil)

// WordRepository handles database operations for words
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// wordRow is the words table layout. Times are Unix milliseconds.
type wordRow struct {
	Word           string  `db:"word"`
	Meaning        string  `db:"meaning"`
	Morphemes      string  `db:"morphemes"`
	Strength       float64 `db:"memory_strength"`
	ReviewCount    int     `db:"review_count"`
	LastReviewedAt int64   `db:"last_reviewed_at"`
	Active         bool    `db:"is_active"`
	CreatedAt      int64   `db:"created_at"`
}

const wordColumns = `word, meaning, morphemes, memory_strength, review_count, last_reviewed_at, is_active, created_at`

func (r wordRow) toModel() (models.Word, error) {
	morphemes := []string{}
	if r.Morphemes != "" {
		if err := json.Unmarshal([]byte(r.Morphemes), &morphemes); err != nil {
			return models.Word{}, fmt.Errorf("invalid morphemes for %q: %w", r.Word, err)
		}
	}
	return models.Word{
		ID:             r.Word,
		Meaning:        r.Meaning,
		Morphemes:      morphemes,
		Strength:       r.Strength,
		ReviewCount:    r.ReviewCount,
		LastReviewedAt: time.UnixMilli(r.LastReviewedAt).UTC(),
		Active:         r.Active,
		CreatedAt:      time.UnixMilli(r.CreatedAt).UTC(),
	}, nil
}

// Get returns a word by its text
func (r *WordRepository) Get(ctx context.Context, id string) (models.Word, error) {
	var row wordRow
	query := r.db.Rebind(`SELECT ` + wordColumns + ` FROM words WHERE word = ?`)
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Word{}, fmt.Errorf("word %q: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Word{}, storeErr("get word", err)
	}
	return row.toModel()
}

// GetAllActive returns all words that are not archived
func (r *WordRepository) GetAllActive(ctx context.Context) ([]models.Word, error) {
	var rows []wordRow
	query := r.db.Rebind(`SELECT ` + wordColumns + ` FROM words WHERE is_active = ? ORDER BY word`)
	if err := r.db.SelectContext(ctx, &rows, query, true); err != nil {
		return nil, storeErr("get active words", err)
	}
	words := make([]models.Word, 0, len(rows))
	for _, row := range rows {
		w, err := row.toModel()
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

// Upsert inserts a word or replaces every field except its creation time
func (r *WordRepository) Upsert(ctx context.Context, w models.Word) error {
	return upsertWord(ctx, r.db, w)
}

// SoftDelete archives a word
func (r *WordRepository) SoftDelete(ctx context.Context, id string) error {
	query := r.db.Rebind(`UPDATE words SET is_active = ? WHERE word = ?`)
	result, err := r.db.ExecContext(ctx, query, false, id)
	if err != nil {
		return storeErr("archive word", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("archive word", err)
	}
	if rows == 0 {
		return fmt.Errorf("word %q: %w", id, models.ErrNotFound)
	}
	return nil
}

func upsertWord(ctx context.Context, q sqlx.ExtContext, w models.Word) error {
	morphemes := w.Morphemes
	if morphemes == nil {
		morphemes = []string{}
	}
	encoded, err := json.Marshal(morphemes)
	if err != nil {
		return fmt.Errorf("failed to encode morphemes: %w", err)
	}

	query := q.Rebind(`
		INSERT INTO words (` + wordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (word) DO UPDATE SET
			meaning = excluded.meaning,
			morphemes = excluded.morphemes,
			memory_strength = excluded.memory_strength,
			review_count = excluded.review_count,
			last_reviewed_at = excluded.last_reviewed_at,
			is_active = excluded.is_active
	`)
	_, err = q.ExecContext(ctx, query,
		w.ID,
		w.Meaning,
		string(encoded),
		w.Strength,
		w.ReviewCount,
		w.LastReviewedAt.UnixMilli(),
		w.Active,
		w.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return storeErr("upsert word", err)
	}
	return nil
}
