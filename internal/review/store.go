package review

import (
	"context"
	"time"

	"github.com/example/wordnet/pkg/models"
)

// ItemStore persists words. Get returns models.ErrNotFound for unknown ids.
type ItemStore interface {
	Get(ctx context.Context, id string) (models.Word, error)
	GetAllActive(ctx context.Context) ([]models.Word, error)
	Upsert(ctx context.Context, w models.Word) error
	SoftDelete(ctx context.Context, id string) error
}

// ScheduleStore persists one review entry per word.
//
// QueryDue and CountDue only consider entries whose word is active.
// QueryDue orders by due time ascending.
type ScheduleStore interface {
	Get(ctx context.Context, wordID string) (models.ReviewEntry, error)
	Upsert(ctx context.Context, e models.ReviewEntry) error
	Delete(ctx context.Context, wordID string) error
	DeleteAll(ctx context.Context) error
	MarkAllDue(ctx context.Context, now time.Time) error
	QueryDue(ctx context.Context, now time.Time, limit int) ([]models.ReviewEntry, error)
	CountDue(ctx context.Context, now time.Time) (int, error)
}

// GradeWriter is implemented by stores that can persist a graded word and
// its new entry in one transaction.
type GradeWriter interface {
	SaveGrade(ctx context.Context, w models.Word, e models.ReviewEntry) error
}
