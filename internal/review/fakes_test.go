package review

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/example/wordnet/pkg/models"
)

var (
	t0         = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	errStoreIO = errors.New("disk I/O error")
)

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memItems is an in-memory ItemStore.
type memItems struct {
	mu         sync.Mutex
	words      map[string]models.Word
	failUpsert error
	writes     *[]string
}

func newMemItems(writes *[]string) *memItems {
	return &memItems{words: map[string]models.Word{}, writes: writes}
}

func (m *memItems) Get(_ context.Context, id string) (models.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.words[id]
	if !ok {
		return models.Word{}, models.ErrNotFound
	}
	return w, nil
}

func (m *memItems) GetAllActive(_ context.Context) ([]models.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Word
	for _, w := range m.words {
		if w.Active {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memItems) Upsert(_ context.Context, w models.Word) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert != nil {
		return &models.StoreError{Op: "upsert word", Err: m.failUpsert}
	}
	m.words[w.ID] = w
	if m.writes != nil {
		*m.writes = append(*m.writes, "word:"+w.ID)
	}
	return nil
}

func (m *memItems) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.words[id]
	if !ok {
		return models.ErrNotFound
	}
	w.Active = false
	m.words[id] = w
	return nil
}

func (m *memItems) active(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words[id].Active
}

// memSchedules is an in-memory ScheduleStore that only sees active words.
type memSchedules struct {
	mu         sync.Mutex
	items      *memItems
	entries    map[string]models.ReviewEntry
	failUpsert error
	failQuery  error
	writes     *[]string
}

func newMemSchedules(items *memItems, writes *[]string) *memSchedules {
	return &memSchedules{items: items, entries: map[string]models.ReviewEntry{}, writes: writes}
}

func (m *memSchedules) Get(_ context.Context, id string) (models.ReviewEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return models.ReviewEntry{}, models.ErrNotFound
	}
	return e, nil
}

func (m *memSchedules) Upsert(_ context.Context, e models.ReviewEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert != nil {
		return &models.StoreError{Op: "upsert entry", Err: m.failUpsert}
	}
	m.entries[e.WordID] = e
	if m.writes != nil {
		*m.writes = append(*m.writes, "entry:"+e.WordID)
	}
	return nil
}

func (m *memSchedules) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *memSchedules) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string]models.ReviewEntry{}
	return nil
}

func (m *memSchedules) MarkAllDue(_ context.Context, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		e.DueAt = now
		m.entries[id] = e
	}
	return nil
}

func (m *memSchedules) QueryDue(_ context.Context, now time.Time, limit int) ([]models.ReviewEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failQuery != nil {
		return nil, &models.StoreError{Op: "query due", Err: m.failQuery}
	}
	var due []models.ReviewEntry
	for _, e := range m.entries {
		if e.IsDue(now) && m.items.active(e.WordID) {
			due = append(due, e)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].WordID < due[j].WordID
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (m *memSchedules) CountDue(ctx context.Context, now time.Time) (int, error) {
	due, err := m.QueryDue(ctx, now, int(^uint(0)>>1))
	return len(due), err
}

// txSchedules adds a transactional SaveGrade to memSchedules.
type txSchedules struct {
	*memSchedules
	saved int
}

func (t *txSchedules) SaveGrade(ctx context.Context, w models.Word, e models.ReviewEntry) error {
	if err := t.items.Upsert(ctx, w); err != nil {
		return err
	}
	t.saved++
	return t.memSchedules.Upsert(ctx, e)
}

type fixture struct {
	clock     *fakeClock
	items     *memItems
	schedules *memSchedules
	engine    *Engine
	writes    []string
}

func newFixture() *fixture {
	f := &fixture{clock: &fakeClock{now: t0}}
	f.items = newMemItems(&f.writes)
	f.schedules = newMemSchedules(f.items, &f.writes)
	f.engine = NewEngine(f.items, f.schedules, WithClock(f.clock.Now))
	return f
}
