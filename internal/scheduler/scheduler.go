package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/tasks"
)

// Config holds dependencies for the scheduler.
type Config struct {
	Store        *tasks.Store
	PurgeCron    string // trash purge schedule
	ReminderCron string // reminder check schedule
}

// sweep is a named recurring maintenance job.
type sweep struct {
	name    string
	cron    *Schedule
	run     func(now time.Time) error
	lastRun time.Time
}

// Scheduler runs the trash purge and reminder sweeps on their cron schedules.
type Scheduler struct {
	store *tasks.Store

	mu     sync.Mutex
	sweeps []*sweep

	done chan struct{}
}

// New creates a Scheduler for the given store. Both cron expressions must parse.
func New(cfg Config) (*Scheduler, error) {
	purge, err := ParseSchedule(cfg.PurgeCron)
	if err != nil {
		return nil, fmt.Errorf("purge schedule: %w", err)
	}
	reminder, err := ParseSchedule(cfg.ReminderCron)
	if err != nil {
		return nil, fmt.Errorf("reminder schedule: %w", err)
	}

	s := &Scheduler{
		store: cfg.Store,
		done:  make(chan struct{}),
	}
	s.sweeps = []*sweep{
		{name: "trash_purge", cron: purge, run: s.purgeTrash},
		{name: "reminders", cron: reminder, run: s.checkReminders},
	}
	return s, nil
}

// Start begins the minute ticker. Each sweep runs at most once per scheduled minute.
func (s *Scheduler) Start() {
	slog.Info("scheduler started", "sweeps", len(s.sweeps))
	go s.loop()
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	close(s.done)
	slog.Info("scheduler stopped")
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// Tick runs every sweep whose schedule matches now. Sweeps are idempotent,
// but a minute is never processed twice.
func (s *Scheduler) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	minute := now.Truncate(time.Minute)
	for _, sw := range s.sweeps {
		if !sw.cron.Matches(now) {
			continue
		}
		if sw.lastRun.Equal(minute) {
			continue
		}
		sw.lastRun = minute

		if err := sw.run(now); err != nil {
			slog.Error("scheduler: sweep failed", "sweep", sw.name, "error", err)
		}
	}
}

func (s *Scheduler) purgeTrash(now time.Time) error {
	removed, err := s.store.SweepTrash(now)
	if err != nil {
		return err
	}
	if removed > 0 {
		slog.Info("scheduler: purged expired trash", "removed", removed)
	}
	return nil
}

func (s *Scheduler) checkReminders(now time.Time) error {
	due, err := s.store.DueReminders(now)
	if err != nil {
		return err
	}
	if len(due) > 0 {
		slog.Info("scheduler: reminders due", "count", len(due))
	}
	return nil
}
