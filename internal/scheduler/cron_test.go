package scheduler

import (
	"testing"
	"time"
)

func TestParseSchedule_Valid(t *testing.T) {
	expr, err := ParseSchedule("*/5 * * * *")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	if expr.String() != "*/5 * * * *" {
		t.Fatalf("expected raw %q, got %q", "*/5 * * * *", expr.String())
	}
}

func TestParseSchedule_Invalid(t *testing.T) {
	_, err := ParseSchedule("not a cron")
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestSchedule_Next(t *testing.T) {
	expr, err := ParseSchedule("0 3 * * *") // every day at 03:00
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}

	base := time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC)
	next := expr.Next(base)

	expected := time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC)
	if !next.Equal(expected) {
		t.Fatalf("expected next %v, got %v", expected, next)
	}
}

func TestSchedule_Matches(t *testing.T) {
	expr, err := ParseSchedule("30 14 * * *") // daily at 14:30
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}

	match := time.Date(2026, 6, 15, 14, 30, 45, 0, time.UTC)
	if !expr.Matches(match) {
		t.Fatal("expected Matches to return true for 14:30")
	}

	noMatch := time.Date(2026, 6, 15, 14, 31, 0, 0, time.UTC)
	if expr.Matches(noMatch) {
		t.Fatal("expected Matches to return false for 14:31")
	}
}

func TestSchedule_EveryMinute(t *testing.T) {
	expr, err := ParseSchedule("* * * * *")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}

	for _, min := range []int{0, 13, 59} {
		at := time.Date(2026, 1, 1, 10, min, 20, 0, time.UTC)
		if !expr.Matches(at) {
			t.Fatalf("expected match at minute %d", min)
		}
	}
}
