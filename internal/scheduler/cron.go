package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// fiveField accepts standard minute-resolution cron expressions.
var fiveField = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Schedule is a parsed five-field cron expression.
type Schedule struct {
	expr string
	spec cron.Schedule
}

// ParseSchedule parses a five-field cron expression such as "0 3 * * *".
func ParseSchedule(expr string) (*Schedule, error) {
	spec, err := fiveField.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron %q: %w", expr, err)
	}
	return &Schedule{expr: expr, spec: spec}, nil
}

// Next returns the first activation strictly after t.
func (s *Schedule) Next(t time.Time) time.Time {
	return s.spec.Next(t)
}

// Matches reports whether t's minute is an activation of the schedule: an
// activation computed from one minute back must land exactly on t's minute.
func (s *Schedule) Matches(t time.Time) bool {
	minute := t.Truncate(time.Minute)
	return s.spec.Next(minute.Add(-time.Minute)).Equal(minute)
}

func (s *Schedule) String() string {
	return s.expr
}
