package tasks

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText rejects creation or edits whose text is empty after trimming.
	ErrEmptyText = errors.New("task text is empty")

	// ErrInvalidInput wraps field validation failures on create and update.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the referenced id is absent from the expected collection.
	ErrNotFound = errors.New("task not found")

	// ErrTaskCompleted rejects adding subtasks to a completed task.
	ErrTaskCompleted = errors.New("task is completed")

	// ErrInvalidImport rejects an import document with a missing or
	// non-array "todos" field. Nothing is mutated.
	ErrInvalidImport = errors.New("invalid import format")

	// ErrNothingToUndo means the undo slot is empty or has expired.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// IncompleteSubtasksError blocks completion while open subtasks remain.
type IncompleteSubtasksError struct {
	Remaining int
}

func (e *IncompleteSubtasksError) Error() string {
	return fmt.Sprintf("%d incomplete subtask(s) remain", e.Remaining)
}
