package tasks

import "time"

// NextOccurrence computes the due date of the next occurrence of a
// recurring task. An empty base date uses now. Daily adds one calendar
// day, weekly adds seven. Monthly advances the month field and clamps the
// day to the last day of the target month, so Jan 31 recurs on Feb 28 (or
// Feb 29 in a leap year) rather than overflowing into March.
func NextOccurrence(baseDueDate string, rule Recurrence, now time.Time) string {
	base, ok := parseDue(baseDueDate)
	if !ok {
		base = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	var next time.Time
	switch rule {
	case RecurDaily:
		next = base.AddDate(0, 0, 1)
	case RecurWeekly:
		next = base.AddDate(0, 0, 7)
	case RecurMonthly:
		next = addMonthClamped(base)
	default:
		next = base
	}
	return next.Format(DateLayout)
}

func addMonthClamped(t time.Time) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SpawnRecurrence builds the next occurrence of a completed recurring
// task: same text, priority, category, and rule; fresh id; uncompleted;
// due date advanced per the rule; subtasks deep-copied with completion
// reset.
func SpawnRecurrence(original Task, now time.Time) Task {
	next := original.Clone()
	next.ID = GenerateTaskID()
	next.Completed = false
	next.CreatedAt = now
	next.Reminded = false
	next.DueDate = NextOccurrence(original.DueDate, original.Recurring, now)
	for i := range next.Subtasks {
		next.Subtasks[i].Completed = false
	}
	return next
}
