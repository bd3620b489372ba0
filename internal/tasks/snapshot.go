package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/events"
)

// SnapshotVersion is the export document version.
const SnapshotVersion = "3.0"

// Snapshot is the import/export document: the three collections plus
// export metadata.
type Snapshot struct {
	Todos         []Task    `json:"todos"`
	ArchivedTodos []Task    `json:"archivedTodos"`
	TrashedTodos  []Task    `json:"trashedTodos"`
	ExportDate    time.Time `json:"exportDate"`
	Version       string    `json:"version"`
}

// Export captures the full store state as a snapshot.
func (s *Store) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Todos:         cloneAll(s.active),
		ArchivedTodos: cloneAll(s.archived),
		TrashedTodos:  cloneAll(s.trashed),
		ExportDate:    time.Now(),
		Version:       SnapshotVersion,
	}
}

// ExportJSON renders the snapshot as indented JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	snap := s.Export()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return append(data, '\n'), nil
}

// Import merges a snapshot document into the store. Tasks whose id is not
// already active are prepended; archived tasks are prepended wholesale. A
// document without an array-valued "todos" field is rejected with
// ErrInvalidImport and nothing is mutated. Returns the number of tasks
// added to the active list.
func (s *Store) Import(data []byte) (int, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	raw, ok := probe["todos"]
	if !ok || !isJSONArray(raw) {
		return 0, ErrInvalidImport
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{}, len(s.active))
	for i := range s.active {
		existing[s.active[i].ID] = struct{}{}
	}

	var fresh []Task
	for _, t := range snap.Todos {
		if _, dup := existing[t.ID]; dup {
			continue
		}
		normalize(&t)
		fresh = append(fresh, t)
	}
	s.active = append(fresh, s.active...)
	if len(snap.ArchivedTodos) > 0 {
		archived := make([]Task, len(snap.ArchivedTodos))
		for i, t := range snap.ArchivedTodos {
			normalize(&t)
			archived[i] = t
		}
		s.archived = append(archived, s.archived...)
	}

	if err := s.persist(); err != nil {
		return len(fresh), err
	}
	s.publish(events.NewEvent(events.EventTasksImported, events.ImportPayload{Added: len(fresh)}))
	s.publishBadge()
	return len(fresh), nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
