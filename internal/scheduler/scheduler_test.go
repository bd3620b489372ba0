package scheduler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/storage"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/tasks"
)

func newTestStore(t *testing.T, seed func(gw storage.Gateway), retention time.Duration) *tasks.Store {
	t.Helper()

	gw, err := storage.Open("file", t.TempDir())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { gw.Close() })

	if seed != nil {
		seed(gw)
	}

	store, err := tasks.NewStore(tasks.Options{Gateway: gw, Retention: retention})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestScheduler_InvalidCron(t *testing.T) {
	store := newTestStore(t, nil, 0)

	_, err := New(Config{Store: store, PurgeCron: "bad", ReminderCron: "* * * * *"})
	if err == nil {
		t.Fatal("expected error for invalid purge cron")
	}

	_, err = New(Config{Store: store, PurgeCron: "0 3 * * *", ReminderCron: "bad"})
	if err == nil {
		t.Fatal("expected error for invalid reminder cron")
	}
}

func TestScheduler_PurgeSweep(t *testing.T) {
	now := time.Date(2026, 3, 10, 3, 0, 10, 0, time.UTC)

	// One trash entry still inside retention at load time, expired by tick time.
	deleted := now.Add(-25*time.Hour + 2*time.Hour)
	trashed := []tasks.Task{{ID: "task_old", Text: "stale", DeletedAt: &deleted}}
	blob, err := json.Marshal(trashed)
	if err != nil {
		t.Fatal(err)
	}

	store := newTestStore(t, func(gw storage.Gateway) {
		if err := gw.Set(storage.KeyTrashed, blob); err != nil {
			t.Fatalf("seed trash: %v", err)
		}
	}, 24*time.Hour)

	if got := len(store.Trashed()); got != 1 {
		t.Fatalf("expected trash entry to survive load, got %d", got)
	}

	s, err := New(Config{Store: store, PurgeCron: "0 3 * * *", ReminderCron: "30 3 * * *"})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	s.Tick(now)
	if got := len(store.Trashed()); got != 0 {
		t.Fatalf("expected trash purged by sweep, got %d entries", got)
	}

	// Wrong minute: nothing to do, no panic.
	s.Tick(now.Add(time.Minute))
}

func TestScheduler_SameMinuteRunsOnce(t *testing.T) {
	store := newTestStore(t, nil, 0)

	var runs int
	s, err := New(Config{Store: store, PurgeCron: "0 3 * * *", ReminderCron: "* * * * *"})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	s.sweeps = append(s.sweeps, &sweep{
		name: "counter",
		cron: s.sweeps[0].cron,
		run: func(time.Time) error {
			runs++
			return nil
		},
	})

	at := time.Date(2026, 3, 10, 3, 0, 5, 0, time.UTC)
	s.Tick(at)
	s.Tick(at.Add(30 * time.Second)) // same minute
	if runs != 1 {
		t.Fatalf("expected one run per minute, got %d", runs)
	}

	s.Tick(at.Add(24 * time.Hour))
	if runs != 2 {
		t.Fatalf("expected second run next day, got %d", runs)
	}
}

func TestScheduler_ReminderSweep(t *testing.T) {
	store := newTestStore(t, nil, 0)

	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)
	task, err := store.Create(tasks.Draft{
		Text:         "standup",
		DueDate:      now.Format(tasks.DateLayout),
		ReminderTime: "09:30",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s, err := New(Config{Store: store, PurgeCron: "0 3 * * *", ReminderCron: "* * * * *"})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	s.Tick(now)

	got, _, err := store.Get(task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Reminded {
		t.Fatal("expected task to be flagged as reminded")
	}
}
