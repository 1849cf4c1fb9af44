package review

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/example/wordnet/internal/spaced_repetition"
	"github.com/example/wordnet/pkg/models"
)

// State is the state of a review session.
type State int

const (
	Idle       State = iota // No word loaded.
	Recalling               // Word shown, answer hidden.
	Evaluating              // Answer revealed, waiting for a grade.
	Completed               // Nothing left due.
)

var stateNames = [...]string{Idle: "IDLE", Recalling: "RECALLING", Evaluating: "EVALUATING", Completed: "COMPLETED"}

func (s State) String() string {
	if s >= Idle && s <= Completed {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session walks the due queue one word at a time. All methods are serialized,
// so a session has a single writer even if the caller is not careful.
// Sessions are not shared between callers.
type Session struct {
	mu      sync.Mutex
	id      string
	engine  *Engine
	state   State
	current *models.Word
	graded  int
}

// NewSession returns an idle session.
func (e *Engine) NewSession() *Session {
	return &Session{
		id:     ulid.Make().String(),
		engine: e,
		state:  Idle,
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the word under review, if any.
func (s *Session) Current() (models.Word, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Word{}, false
	}
	return *s.current, true
}

// GradedCount returns the number of grades applied since Start.
func (s *Session) GradedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graded
}

// Start begins a new pass over the due queue and loads the first due word.
// It may be called from any state; on error the session is left as it was.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevState, prevCurrent, prevGraded := s.state, s.current, s.graded
	s.graded = 0
	s.state = Recalling
	s.current = nil
	if err := s.fetchNext(ctx); err != nil {
		s.state, s.current, s.graded = prevState, prevCurrent, prevGraded
		return err
	}
	log.Printf("Review session %s started: %s", s.id, s.state)
	return nil
}

// RevealAnswer moves from RECALLING to EVALUATING. Outside RECALLING it does
// nothing. It reports whether the state changed.
func (s *Session) RevealAnswer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Recalling || s.current == nil {
		return false
	}
	s.state = Evaluating
	return true
}

// SubmitGrade grades the current word and loads the next due one.
//
// Outside EVALUATING the call is ignored with a warning. If persisting fails
// the session stays in EVALUATING and the grade is not applied, so the call
// can be retried. If the grade was saved but loading the next word fails,
// the error is returned with the session in RECALLING and no word loaded.
func (s *Session) SubmitGrade(ctx context.Context, quality spaced_repetition.QualityResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Evaluating || s.current == nil {
		log.Printf("Warning: session %s ignored grade %d in state %s", s.id, quality, s.state)
		return nil
	}

	updated, next, err := s.engine.grade(ctx, *s.current, quality)
	if err != nil {
		return err
	}
	log.Printf("Session %s graded %q with %d: strength %.2f, next review in %d day(s)",
		s.id, updated.ID, quality.Clamp(), updated.Strength, next.IntervalDays)

	s.graded++
	s.state = Recalling
	s.current = nil
	if err := s.fetchNext(ctx); err != nil {
		return fmt.Errorf("grade saved, failed to load next word: %w", err)
	}
	return nil
}

// Reset makes every schedule entry due now. The session state is unchanged;
// call Start to review the refreshed queue.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Reset(ctx)
}

// fetchNext loads the earliest due word or completes the session.
// The caller holds s.mu.
func (s *Session) fetchNext(ctx context.Context) error {
	w, ok, err := s.engine.nextDue(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.state = Completed
		s.current = nil
		log.Printf("Review session %s completed after %d grade(s)", s.id, s.graded)
		return nil
	}
	s.current = &w
	s.state = Recalling
	return nil
}
