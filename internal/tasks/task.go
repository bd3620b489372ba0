// Package tasks implements the todo task engine: the record store owning
// the active, archived, and trashed collections, the view pipeline that
// filters and sorts them, recurrence, and trash retention.
package tasks

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Recurrence is the repeat rule applied when a task is completed.
type Recurrence string

const (
	RecurNone    Recurrence = ""
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// Valid reports whether r is empty or a known recurrence rule.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly:
		return true
	}
	return false
}

// DateLayout is the calendar-date format used for due dates (no time component).
const DateLayout = "2006-01-02"

// ClockLayout is the time-of-day format used for reminder times.
const ClockLayout = "15:04"

// Subtask is a checklist item attached to a task.
type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is the core record. A task lives in exactly one of the three
// collections: Active (neither timestamp set), Archived (ArchivedAt set),
// or Trashed (DeletedAt set).
type Task struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Completed    bool       `json:"completed"`
	CreatedAt    time.Time  `json:"createdAt"`
	Priority     Priority   `json:"priority"`
	DueDate      string     `json:"dueDate,omitempty"`
	Category     string     `json:"category,omitempty"`
	Subtasks     []Subtask  `json:"subtasks"`
	Recurring    Recurrence `json:"recurring,omitempty"`
	ReminderTime string     `json:"reminderTime,omitempty"`
	Reminded     bool       `json:"reminded,omitempty"`
	ArchivedAt   *time.Time `json:"archivedAt,omitempty"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
}

// IncompleteSubtasks returns the number of subtasks not yet completed.
func (t *Task) IncompleteSubtasks() int {
	n := 0
	for _, s := range t.Subtasks {
		if !s.Completed {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	if t.ArchivedAt != nil {
		at := *t.ArchivedAt
		c.ArchivedAt = &at
	}
	if t.DeletedAt != nil {
		dt := *t.DeletedAt
		c.DeletedAt = &dt
	}
	return c
}

// Collection identifies which list a task belongs to.
type Collection string

const (
	CollectionActive   Collection = "active"
	CollectionArchived Collection = "archived"
	CollectionTrashed  Collection = "trashed"
)

// Draft carries the user-supplied fields for a new task.
type Draft struct {
	Text         string     `json:"text"`
	Priority     Priority   `json:"priority,omitempty"`
	DueDate      string     `json:"dueDate,omitempty"`
	Category     string     `json:"category,omitempty"`
	Recurring    Recurrence `json:"recurring,omitempty"`
	ReminderTime string     `json:"reminderTime,omitempty"`
}

// Patch describes a partial update to a task. Nil fields are left unchanged.
type Patch struct {
	Text         *string     `json:"text,omitempty"`
	Priority     *Priority   `json:"priority,omitempty"`
	DueDate      *string     `json:"dueDate,omitempty"`
	Category     *string     `json:"category,omitempty"`
	Recurring    *Recurrence `json:"recurring,omitempty"`
	ReminderTime *string     `json:"reminderTime,omitempty"`
}

// idCounter disambiguates IDs generated within the same millisecond.
var idCounter uint64

// GenerateTaskID creates a unique task identifier. IDs are derived from the
// creation time plus a process-local counter, so identical-millisecond
// creation still yields distinct IDs.
func GenerateTaskID() string {
	return generateID("task")
}

// GenerateSubtaskID creates a unique subtask identifier.
func GenerateSubtaskID() string {
	return generateID("sub")
}

func generateID(prefix string) string {
	seq := atomic.AddUint64(&idCounter, 1)
	ms := time.Now().UnixMilli()
	return fmt.Sprintf("%s_%s%s", prefix, strconv.FormatInt(ms, 36), strconv.FormatUint(seq, 36))
}

// validateDraft normalizes a draft in place and reports the first problem.
func validateDraft(d *Draft) error {
	d.Text = strings.TrimSpace(d.Text)
	if d.Text == "" {
		return ErrEmptyText
	}
	if d.Priority == "" {
		d.Priority = PriorityLow
	}
	if !d.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidInput, d.Priority)
	}
	if !d.Recurring.Valid() {
		return fmt.Errorf("%w: recurrence %q", ErrInvalidInput, d.Recurring)
	}
	if d.DueDate != "" {
		if _, err := time.Parse(DateLayout, d.DueDate); err != nil {
			return fmt.Errorf("%w: due date %q", ErrInvalidInput, d.DueDate)
		}
	}
	if d.ReminderTime != "" {
		if _, err := time.Parse(ClockLayout, d.ReminderTime); err != nil {
			return fmt.Errorf("%w: reminder time %q", ErrInvalidInput, d.ReminderTime)
		}
	}
	d.Category = strings.TrimSpace(d.Category)
	return nil
}
