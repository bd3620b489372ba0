package tasks

import "time"

// PurgeExpiredTrash returns the trashed tasks whose deletedAt is still
// within the retention window. The input is not modified; applying the
// filter twice yields the same result as applying it once.
func PurgeExpiredTrash(trashed []Task, now time.Time, retention time.Duration) []Task {
	retained := make([]Task, 0, len(trashed))
	for _, t := range trashed {
		if t.DeletedAt == nil {
			// No deletion stamp: keep rather than silently destroy.
			retained = append(retained, t)
			continue
		}
		if now.Sub(*t.DeletedAt) <= retention {
			retained = append(retained, t)
		}
	}
	return retained
}

// DeleteRecord remembers one soft delete: the removed task, where it sat
// in the active list, and when the undo window closes. It is persisted
// alongside the collections so undo works from a fresh process too.
type DeleteRecord struct {
	Task   Task      `json:"task"`
	Index  int       `json:"index"`
	Expiry time.Time `json:"expiry"`
}

// UndoBuffer is a single-slot undo store. A new delete silently replaces
// the previous slot; only the most recent deletion is undoable.
type UndoBuffer struct {
	slot *DeleteRecord
}

// Record stores a delete, superseding any previous slot.
func (b *UndoBuffer) Record(t Task, index int, expiry time.Time) {
	b.slot = &DeleteRecord{Task: t, Index: index, Expiry: expiry}
}

// Take removes and returns the slot if it is still within its window.
func (b *UndoBuffer) Take(now time.Time) (DeleteRecord, bool) {
	if b.slot == nil || now.After(b.slot.Expiry) {
		b.slot = nil
		return DeleteRecord{}, false
	}
	rec := *b.slot
	b.slot = nil
	return rec, true
}

// Clear empties the slot.
func (b *UndoBuffer) Clear() {
	b.slot = nil
}
