package tasks

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/events"
	"github.com/sudovinay01/Antigravity-TODO-app/internal/storage"
)

// DefaultRetention is how long trashed tasks are kept before permanent purge.
const DefaultRetention = 30 * 24 * time.Hour

// DefaultUndoWindow is how long the last soft delete stays undoable.
const DefaultUndoWindow = 5 * time.Second

// Options configures a Store.
type Options struct {
	Gateway    storage.Gateway
	Bus        *events.Bus   // optional; events are dropped when nil
	Retention  time.Duration // zero means DefaultRetention
	UndoWindow time.Duration // zero means DefaultUndoWindow
}

// Store owns the canonical task collections. All operations are safe for
// concurrent use; every mutation rewrites the three persisted blobs before
// returning. The in-memory collections remain the source of truth for the
// session even when a persistence write fails.
type Store struct {
	mu sync.RWMutex

	gw  storage.Gateway
	bus *events.Bus

	active   []Task
	archived []Task
	trashed  []Task

	undo       UndoBuffer
	retention  time.Duration
	undoWindow time.Duration
}

// NewStore creates a Store and loads the persisted collections. Trash
// entries past the retention window are purged as part of loading.
func NewStore(opts Options) (*Store, error) {
	s := &Store{
		gw:         opts.Gateway,
		bus:        opts.Bus,
		retention:  opts.Retention,
		undoWindow: opts.UndoWindow,
	}
	if s.retention == 0 {
		s.retention = DefaultRetention
	}
	if s.undoWindow == 0 {
		s.undoWindow = DefaultUndoWindow
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if err := loadCollection(s.gw, storage.KeyTodos, &s.active); err != nil {
		return err
	}
	if err := loadCollection(s.gw, storage.KeyArchived, &s.archived); err != nil {
		return err
	}
	if err := loadCollection(s.gw, storage.KeyTrashed, &s.trashed); err != nil {
		return err
	}

	for i := range s.active {
		normalize(&s.active[i])
	}

	if err := s.loadUndo(); err != nil {
		return err
	}

	retained := PurgeExpiredTrash(s.trashed, time.Now(), s.retention)
	purged := len(s.trashed) - len(retained)
	s.trashed = retained

	if purged > 0 {
		if err := s.persist(); err != nil {
			return err
		}
		s.publish(events.NewEvent(events.EventTrashPurged, events.PurgePayload{Removed: purged}))
	}
	return nil
}

func loadCollection(gw storage.Gateway, key string, out *[]Task) error {
	data, err := gw.Get(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// loadUndo restores a pending delete record written by a previous
// process. An expired record is simply not loaded; the next persist
// overwrites it.
func (s *Store) loadUndo() error {
	data, err := s.gw.Get(storage.KeyUndo)
	if err != nil {
		return fmt.Errorf("load %s: %w", storage.KeyUndo, err)
	}
	if data == nil {
		return nil
	}
	var rec *DeleteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode %s: %w", storage.KeyUndo, err)
	}
	if rec == nil || time.Now().After(rec.Expiry) {
		return nil
	}
	s.undo.Record(rec.Task, rec.Index, rec.Expiry)
	return nil
}

// normalize fills defaults for records written by older versions.
func normalize(t *Task) {
	if t.Priority == "" {
		t.Priority = PriorityLow
	}
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
}

// persist rewrites all three blobs. Callers hold the write lock.
func (s *Store) persist() error {
	if err := persistCollection(s.gw, storage.KeyTodos, s.active); err != nil {
		return err
	}
	if err := persistCollection(s.gw, storage.KeyArchived, s.archived); err != nil {
		return err
	}
	if err := persistCollection(s.gw, storage.KeyTrashed, s.trashed); err != nil {
		return err
	}

	// The undo slot rides along with every persist: recording a delete
	// stores it, taking (or superseding) it clears the stored copy.
	data, err := json.Marshal(s.undo.slot)
	if err != nil {
		return fmt.Errorf("encode %s: %w", storage.KeyUndo, err)
	}
	if err := s.gw.Set(storage.KeyUndo, data); err != nil {
		return fmt.Errorf("persist %s: %w", storage.KeyUndo, err)
	}
	return nil
}

func persistCollection(gw storage.Gateway, key string, list []Task) error {
	if list == nil {
		list = []Task{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := gw.Set(key, data); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *Store) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// publishBadge reports the remaining active count. Callers hold at least
// the read lock.
func (s *Store) publishBadge() {
	if s.bus == nil {
		return
	}
	n := 0
	for i := range s.active {
		if !s.active[i].Completed {
			n++
		}
	}
	s.bus.Publish(events.NewEvent(events.EventBadgeUpdated, events.BadgePayload{Count: n}))
}

// Create validates the draft, prepends the new task to the active
// collection, and persists.
func (s *Store) Create(d Draft) (Task, error) {
	if err := validateDraft(&d); err != nil {
		return Task{}, err
	}

	t := Task{
		ID:           GenerateTaskID(),
		Text:         d.Text,
		CreatedAt:    time.Now(),
		Priority:     d.Priority,
		DueDate:      d.DueDate,
		Category:     d.Category,
		Subtasks:     []Subtask{},
		Recurring:    d.Recurring,
		ReminderTime: d.ReminderTime,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = append([]Task{t}, s.active...)
	if err := s.persist(); err != nil {
		return t.Clone(), err
	}
	s.publish(events.NewEvent(events.EventTaskCreated, events.TaskPayload{ID: t.ID, Text: t.Text}))
	s.publishBadge()
	return t.Clone(), nil
}

// Update applies a patch to an active task. Changing the due date or the
// reminder time resets the reminded flag so a re-scheduled reminder fires
// again.
func (s *Store) Update(id string, p Patch) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := &s.active[i]

	if p.Text != nil {
		text := trimText(*p.Text)
		if text == "" {
			return Task{}, ErrEmptyText
		}
		t.Text = text
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return Task{}, fmt.Errorf("%w: priority %q", ErrInvalidInput, *p.Priority)
		}
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = trimText(*p.Category)
	}
	if p.Recurring != nil {
		if !p.Recurring.Valid() {
			return Task{}, fmt.Errorf("%w: recurrence %q", ErrInvalidInput, *p.Recurring)
		}
		t.Recurring = *p.Recurring
	}
	if p.DueDate != nil && *p.DueDate != t.DueDate {
		if *p.DueDate != "" {
			if _, err := time.Parse(DateLayout, *p.DueDate); err != nil {
				return Task{}, fmt.Errorf("%w: due date %q", ErrInvalidInput, *p.DueDate)
			}
		}
		t.DueDate = *p.DueDate
		t.Reminded = false
	}
	if p.ReminderTime != nil && *p.ReminderTime != t.ReminderTime {
		if *p.ReminderTime != "" {
			if _, err := time.Parse(ClockLayout, *p.ReminderTime); err != nil {
				return Task{}, fmt.Errorf("%w: reminder time %q", ErrInvalidInput, *p.ReminderTime)
			}
		}
		t.ReminderTime = *p.ReminderTime
		t.Reminded = false
	}

	if err := s.persist(); err != nil {
		return t.Clone(), err
	}
	return t.Clone(), nil
}

// ToggleComplete flips a task's completed flag. Completion is rejected
// while incomplete subtasks remain. Completing a recurring task spawns the
// next occurrence at the head of the active list.
func (s *Store) ToggleComplete(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := &s.active[i]

	if !t.Completed {
		if n := t.IncompleteSubtasks(); n > 0 {
			return Task{}, &IncompleteSubtasksError{Remaining: n}
		}
	}

	t.Completed = !t.Completed

	if t.Completed && t.Recurring != RecurNone {
		next := SpawnRecurrence(*t, time.Now())
		s.active = append([]Task{next}, s.active...)
		s.publish(events.NewEvent(events.EventTaskCreated, events.TaskPayload{ID: next.ID, Text: next.Text}))
	}

	// Re-resolve: the prepend above shifts indices.
	i = indexOf(s.active, id)
	done := s.active[i].Clone()

	if err := s.persist(); err != nil {
		return done, err
	}
	if done.Completed {
		s.publish(events.NewEvent(events.EventTaskCompleted, events.TaskPayload{ID: done.ID, Text: done.Text}))
	}
	s.publishBadge()
	return done, nil
}

// SoftDelete moves an active task to the trash, stamps deletedAt, and
// records it in the single-slot undo buffer. It returns the removed task
// and its prior position in the active list.
func (s *Store) SoftDelete(id string) (Task, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return Task{}, 0, ErrNotFound
	}

	t := s.active[i]
	now := time.Now()
	t.DeletedAt = &now

	s.active = append(s.active[:i], s.active[i+1:]...)
	s.trashed = append([]Task{t}, s.trashed...)
	s.undo.Record(t.Clone(), i, now.Add(s.undoWindow))

	if err := s.persist(); err != nil {
		return t.Clone(), i, err
	}
	s.publish(events.NewEvent(events.EventTaskTrashed, events.TaskPayload{ID: t.ID, Text: t.Text}))
	s.publishBadge()
	return t.Clone(), i, nil
}

// Undo restores the most recent soft delete, reinserting the task at its
// original index (clamped to the current list length).
func (s *Store) Undo() (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.undo.Take(time.Now())
	if !ok {
		return Task{}, ErrNothingToUndo
	}

	if i := indexOf(s.trashed, rec.Task.ID); i >= 0 {
		s.trashed = append(s.trashed[:i], s.trashed[i+1:]...)
	}

	t := rec.Task
	t.DeletedAt = nil

	idx := rec.Index
	if idx > len(s.active) {
		idx = len(s.active)
	}
	s.active = append(s.active[:idx], append([]Task{t}, s.active[idx:]...)...)

	if err := s.persist(); err != nil {
		return t.Clone(), err
	}
	s.publish(events.NewEvent(events.EventTaskRestored, events.TaskPayload{ID: t.ID, Text: t.Text}))
	s.publishBadge()
	return t.Clone(), nil
}

// Archive moves an active task to the archive and stamps archivedAt.
func (s *Store) Archive(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return Task{}, ErrNotFound
	}

	t := s.active[i]
	now := time.Now()
	t.ArchivedAt = &now

	s.active = append(s.active[:i], s.active[i+1:]...)
	s.archived = append([]Task{t}, s.archived...)

	if err := s.persist(); err != nil {
		return t.Clone(), err
	}
	s.publish(events.NewEvent(events.EventTaskArchived, events.TaskPayload{ID: t.ID, Text: t.Text}))
	s.publishBadge()
	return t.Clone(), nil
}

// BulkArchiveCompleted archives every completed active task and returns
// how many were moved.
func (s *Store) BulkArchiveCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var remaining []Task
	moved := 0
	for _, t := range s.active {
		if t.Completed {
			at := now
			t.ArchivedAt = &at
			s.archived = append([]Task{t}, s.archived...)
			moved++
			continue
		}
		remaining = append(remaining, t)
	}
	if moved == 0 {
		return 0, nil
	}
	s.active = remaining

	if err := s.persist(); err != nil {
		return moved, err
	}
	s.publishBadge()
	return moved, nil
}

// Restore moves a task from the archive or the trash back to the head of
// the active list. Restoring from the archive clears the completed flag.
func (s *Store) Restore(id string, from Collection) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var src *[]Task
	switch from {
	case CollectionArchived:
		src = &s.archived
	case CollectionTrashed:
		src = &s.trashed
	default:
		return Task{}, fmt.Errorf("cannot restore from %q", from)
	}

	i := indexOf(*src, id)
	if i < 0 {
		return Task{}, ErrNotFound
	}

	t := (*src)[i]
	*src = append((*src)[:i], (*src)[i+1:]...)

	if from == CollectionArchived {
		t.ArchivedAt = nil
		t.Completed = false
	} else {
		t.DeletedAt = nil
	}
	s.active = append([]Task{t}, s.active...)

	if err := s.persist(); err != nil {
		return t.Clone(), err
	}
	s.publish(events.NewEvent(events.EventTaskRestored, events.TaskPayload{ID: t.ID, Text: t.Text}))
	s.publishBadge()
	return t.Clone(), nil
}

// PurgePermanently destroys a trashed task. There is no way back.
func (s *Store) PurgePermanently(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.trashed, id)
	if i < 0 {
		return ErrNotFound
	}
	s.trashed = append(s.trashed[:i], s.trashed[i+1:]...)

	if err := s.persist(); err != nil {
		return err
	}
	s.publish(events.NewEvent(events.EventTrashPurged, events.PurgePayload{Removed: 1}))
	return nil
}

// EmptyTrash destroys all trashed tasks and returns how many were removed.
func (s *Store) EmptyTrash() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.trashed)
	if n == 0 {
		return 0, nil
	}
	s.trashed = nil

	if err := s.persist(); err != nil {
		return n, err
	}
	s.publish(events.NewEvent(events.EventTrashPurged, events.PurgePayload{Removed: n}))
	return n, nil
}

// SweepTrash purges trash entries older than the retention window. It is
// idempotent: a second run right after the first removes nothing.
func (s *Store) SweepTrash(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	retained := PurgeExpiredTrash(s.trashed, now, s.retention)
	purged := len(s.trashed) - len(retained)
	if purged == 0 {
		return 0, nil
	}
	s.trashed = retained

	if err := s.persist(); err != nil {
		return purged, err
	}
	s.publish(events.NewEvent(events.EventTrashPurged, events.PurgePayload{Removed: purged}))
	return purged, nil
}

// Reorder moves an active task so it sits immediately before another,
// preserving the relative order of everything else. An empty beforeID
// moves the task to the end of the list.
func (s *Store) Reorder(id, beforeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, id)
	if i < 0 {
		return ErrNotFound
	}

	t := s.active[i]
	rest := append(s.active[:i:i], s.active[i+1:]...)

	j := len(rest)
	if beforeID != "" {
		j = indexOf(rest, beforeID)
		if j < 0 {
			return ErrNotFound
		}
	}
	s.active = append(rest[:j:j], append([]Task{t}, rest[j:]...)...)

	return s.persist()
}

// AddSubtask appends a subtask to an active task. Completed tasks cannot
// gain new subtasks.
func (s *Store) AddSubtask(taskID, text string) (Subtask, error) {
	text = trimText(text)
	if text == "" {
		return Subtask{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, taskID)
	if i < 0 {
		return Subtask{}, ErrNotFound
	}
	t := &s.active[i]
	if t.Completed {
		return Subtask{}, ErrTaskCompleted
	}

	sub := Subtask{ID: GenerateSubtaskID(), Text: text}
	t.Subtasks = append(t.Subtasks, sub)

	if err := s.persist(); err != nil {
		return sub, err
	}
	return sub, nil
}

// ToggleSubtask flips a subtask's completed flag.
func (s *Store) ToggleSubtask(taskID, subtaskID string) (Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.findSubtask(taskID, subtaskID)
	if err != nil {
		return Subtask{}, err
	}
	sub.Completed = !sub.Completed

	if err := s.persist(); err != nil {
		return *sub, err
	}
	return *sub, nil
}

// UpdateSubtask replaces a subtask's text.
func (s *Store) UpdateSubtask(taskID, subtaskID, text string) (Subtask, error) {
	text = trimText(text)
	if text == "" {
		return Subtask{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.findSubtask(taskID, subtaskID)
	if err != nil {
		return Subtask{}, err
	}
	sub.Text = text

	if err := s.persist(); err != nil {
		return *sub, err
	}
	return *sub, nil
}

// DeleteSubtask removes a subtask from its parent.
func (s *Store) DeleteSubtask(taskID, subtaskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.active, taskID)
	if i < 0 {
		return ErrNotFound
	}
	t := &s.active[i]
	for j := range t.Subtasks {
		if t.Subtasks[j].ID == subtaskID {
			t.Subtasks = append(t.Subtasks[:j], t.Subtasks[j+1:]...)
			return s.persist()
		}
	}
	return ErrNotFound
}

func (s *Store) findSubtask(taskID, subtaskID string) (*Subtask, error) {
	i := indexOf(s.active, taskID)
	if i < 0 {
		return nil, ErrNotFound
	}
	t := &s.active[i]
	for j := range t.Subtasks {
		if t.Subtasks[j].ID == subtaskID {
			return &t.Subtasks[j], nil
		}
	}
	return nil, ErrNotFound
}

// Get returns a task from any collection, with the collection it lives in.
func (s *Store) Get(id string) (Task, Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.active, id); i >= 0 {
		return s.active[i].Clone(), CollectionActive, nil
	}
	if i := indexOf(s.archived, id); i >= 0 {
		return s.archived[i].Clone(), CollectionArchived, nil
	}
	if i := indexOf(s.trashed, id); i >= 0 {
		return s.trashed[i].Clone(), CollectionTrashed, nil
	}
	return Task{}, "", ErrNotFound
}

// Active returns a copy of the active collection.
func (s *Store) Active() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.active)
}

// Archived returns a copy of the archived collection.
func (s *Store) Archived() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.archived)
}

// Trashed returns a copy of the trashed collection.
func (s *Store) Trashed() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.trashed)
}

// Categories returns the sorted set of distinct categories across active tasks.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for i := range s.active {
		if c := s.active[i].Category; c != "" {
			seen[c] = struct{}{}
		}
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Counts reports list sizes for badges: remaining uncompleted active
// tasks, archived tasks, and trashed tasks.
func (s *Store) Counts() (remaining, archived, trashed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.active {
		if !s.active[i].Completed {
			remaining++
		}
	}
	return remaining, len(s.archived), len(s.trashed)
}

func indexOf(list []Task, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(list []Task) []Task {
	out := make([]Task, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}

func trimText(s string) string {
	return strings.TrimSpace(s)
}
