package tasks

import (
	"time"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/events"
)

// DueReminders returns the active tasks whose reminder is due at now: not
// completed, reminder time set, due today, reminder minute matching, and
// not yet reminded. Matched tasks are flagged reminded and persisted, so a
// sweep running twice in the same minute delivers each reminder once.
func (s *Store) DueReminders(now time.Time) ([]Task, error) {
	today := now.Format(DateLayout)
	minute := now.Format(ClockLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Task
	for i := range s.active {
		t := &s.active[i]
		if t.Completed || t.Reminded || t.ReminderTime == "" {
			continue
		}
		if t.DueDate != today || t.ReminderTime != minute {
			continue
		}
		t.Reminded = true
		due = append(due, t.Clone())
	}
	if len(due) == 0 {
		return nil, nil
	}

	if err := s.persist(); err != nil {
		return due, err
	}
	for _, t := range due {
		s.publish(events.NewEvent(events.EventReminderDue, events.ReminderPayload{
			ID:           t.ID,
			Text:         t.Text,
			ReminderTime: t.ReminderTime,
		}))
	}
	return due, nil
}
