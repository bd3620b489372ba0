package tasks

import (
	"testing"
	"time"
)

func TestPurgeExpiredTrash(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Hour)
	edge := now.Add(-DefaultRetention)
	expired := now.Add(-DefaultRetention - time.Minute)

	trashed := []Task{
		{ID: "task_fresh", DeletedAt: &fresh},
		{ID: "task_edge", DeletedAt: &edge},
		{ID: "task_expired", DeletedAt: &expired},
		{ID: "task_unstamped"},
	}

	retained := PurgeExpiredTrash(trashed, now, DefaultRetention)
	if len(retained) != 3 {
		t.Fatalf("retained = %d, want 3", len(retained))
	}
	for _, task := range retained {
		if task.ID == "task_expired" {
			t.Error("expired entry survived the purge")
		}
	}

	// Exactly at the boundary counts as retained.
	if retained[1].ID != "task_edge" {
		t.Error("entry at the retention boundary must be kept")
	}

	// Idempotent: filtering the result changes nothing.
	again := PurgeExpiredTrash(retained, now, DefaultRetention)
	if len(again) != len(retained) {
		t.Error("second purge removed entries the first kept")
	}

	// Input is untouched.
	if len(trashed) != 4 {
		t.Error("input slice was modified")
	}
}

func TestUndoBuffer(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	var buf UndoBuffer

	if _, ok := buf.Take(now); ok {
		t.Fatal("empty buffer must yield nothing")
	}

	buf.Record(Task{ID: "task_a"}, 2, now.Add(5*time.Second))
	rec, ok := buf.Take(now.Add(time.Second))
	if !ok || rec.Task.ID != "task_a" || rec.Index != 2 {
		t.Fatalf("take = %+v ok=%v", rec, ok)
	}
	if _, ok := buf.Take(now); ok {
		t.Error("taking empties the slot")
	}

	// A later record supersedes an earlier one.
	buf.Record(Task{ID: "task_a"}, 0, now.Add(5*time.Second))
	buf.Record(Task{ID: "task_b"}, 1, now.Add(5*time.Second))
	rec, ok = buf.Take(now)
	if !ok || rec.Task.ID != "task_b" {
		t.Errorf("take after overwrite = %s, want task_b", rec.Task.ID)
	}

	// Expiry clears the slot.
	buf.Record(Task{ID: "task_c"}, 0, now.Add(5*time.Second))
	if _, ok := buf.Take(now.Add(6 * time.Second)); ok {
		t.Error("expired slot must yield nothing")
	}
	if _, ok := buf.Take(now); ok {
		t.Error("expired slot must be cleared, not retried")
	}

	buf.Record(Task{ID: "task_d"}, 0, now.Add(5*time.Second))
	buf.Clear()
	if _, ok := buf.Take(now); ok {
		t.Error("Clear must empty the slot")
	}
}
