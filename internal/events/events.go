// Package events provides an in-memory event bus for task lifecycle
// notifications: badge counts, reminders, and collection changes.
package events

import (
	"fmt"
	"sync/atomic"
	"time"
)

// EventType represents the type of event.
type EventType string

const (
	EventTaskCreated   EventType = "task.created"
	EventTaskCompleted EventType = "task.completed"
	EventTaskTrashed   EventType = "task.trashed"
	EventTaskArchived  EventType = "task.archived"
	EventTaskRestored  EventType = "task.restored"
	EventTrashPurged   EventType = "trash.purged"
	EventTasksImported EventType = "tasks.imported"
	EventBadgeUpdated  EventType = "badge.updated"
	EventReminderDue   EventType = "reminder.due"
)

// Event is one bus notification.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// TaskPayload accompanies lifecycle events about a single task.
type TaskPayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// BadgePayload carries the current count of remaining active tasks.
type BadgePayload struct {
	Count int `json:"count"`
}

// PurgePayload reports how many trash entries were destroyed.
type PurgePayload struct {
	Removed int `json:"removed"`
}

// ImportPayload reports how many tasks an import added.
type ImportPayload struct {
	Added int `json:"added"`
}

// ReminderPayload accompanies a due reminder.
type ReminderPayload struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	ReminderTime string `json:"reminderTime"`
}

// eventIDCounter is used to generate sequential event IDs.
var eventIDCounter uint64

// NewEvent creates an event with the current timestamp.
func NewEvent(eventType EventType, payload any) Event {
	return Event{
		ID:        generateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

func generateEventID() string {
	seq := atomic.AddUint64(&eventIDCounter, 1)
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), seq)
}
