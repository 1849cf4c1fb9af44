package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Notifier interface for sending notifications
type Notifier interface {
	NotifyDue(ctx context.Context, count int) error
}

// DueCounter reports how many words are due now
type DueCounter interface {
	DueCount(ctx context.Context) (int, error)
}

// Config controls when reminders are sent
type Config struct {
	Interval  time.Duration
	StartHour int
	EndHour   int
	Location  *time.Location
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	counter   DueCounter
	notifier  Notifier
	cfg       Config
	now       func() time.Time
}

// New creates a new scheduler instance
func New(counter DueCounter, notifier Notifier, cfg Config) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(cfg.Location),
		counter:   counter,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Start begins running the reminder job in the background
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(s.cfg.Interval).Do(func() {
		if _, err := s.CheckAndNotify(ctx); err != nil {
			log.Printf("Error sending due reminder: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// InWindow reports whether hour falls inside the notification hours.
// A window whose start is after its end wraps past midnight.
func (s *Scheduler) InWindow(hour int) bool {
	if s.cfg.StartHour <= s.cfg.EndHour {
		return hour >= s.cfg.StartHour && hour <= s.cfg.EndHour
	}
	return hour >= s.cfg.StartHour || hour <= s.cfg.EndHour
}

// CheckAndNotify sends a reminder if words are due and the current hour is
// inside the notification window. It returns the number of due words it
// reminded about.
func (s *Scheduler) CheckAndNotify(ctx context.Context) (int, error) {
	currentHour := s.now().In(s.cfg.Location).Hour()
	if !s.InWindow(currentHour) {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, s.cfg.StartHour, s.cfg.EndHour)
		return 0, nil
	}

	count, err := s.counter.DueCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count due words: %w", err)
	}
	if count == 0 {
		return 0, nil
	}
	if err := s.notifier.NotifyDue(ctx, count); err != nil {
		return 0, err
	}
	return count, nil
}
