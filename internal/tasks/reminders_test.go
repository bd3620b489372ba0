package tasks

import (
	"testing"
	"time"
)

func TestDueReminders(t *testing.T) {
	s := newStore(t)
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	today := now.Format(DateLayout)

	due, err := s.Create(Draft{Text: "standup", DueDate: today, ReminderTime: "09:30"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(Draft{Text: "later", DueDate: today, ReminderTime: "10:00"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(Draft{Text: "tomorrow", DueDate: "2026-09-02", ReminderTime: "09:30"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(Draft{Text: "no reminder", DueDate: today}); err != nil {
		t.Fatal(err)
	}
	finished, err := s.Create(Draft{Text: "done", DueDate: today, ReminderTime: "09:30"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleComplete(finished.ID); err != nil {
		t.Fatal(err)
	}

	got, err := s.DueReminders(now)
	if err != nil {
		t.Fatalf("due reminders: %v", err)
	}
	if len(got) != 1 || got[0].ID != due.ID {
		t.Fatalf("due = %v, want only the matching task", got)
	}
	if !got[0].Reminded {
		t.Error("delivered reminder must be flagged")
	}
}

func TestDueReminders_FiresOncePerTask(t *testing.T) {
	s := newStore(t)
	now := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

	if _, err := s.Create(Draft{Text: "ping", DueDate: "2026-09-01", ReminderTime: "14:00"}); err != nil {
		t.Fatal(err)
	}

	first, err := s.DueReminders(now)
	if err != nil || len(first) != 1 {
		t.Fatalf("first sweep: due = %d err = %v, want 1", len(first), err)
	}
	second, err := s.DueReminders(now.Add(30 * time.Second))
	if err != nil || len(second) != 0 {
		t.Fatalf("second sweep: due = %d err = %v, want 0", len(second), err)
	}
}
