package gateway

import (
	"errors"
	"net/http"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/tasks"
)

// writeError maps task engine errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var incomplete *tasks.IncompleteSubtasksError

	switch {
	case errors.Is(err, tasks.ErrNotFound):
		jsonError(w, http.StatusNotFound, err)
	case errors.Is(err, tasks.ErrEmptyText),
		errors.Is(err, tasks.ErrInvalidInput),
		errors.Is(err, tasks.ErrInvalidImport):
		jsonError(w, http.StatusBadRequest, err)
	case errors.As(err, &incomplete),
		errors.Is(err, tasks.ErrTaskCompleted),
		errors.Is(err, tasks.ErrNothingToUndo):
		jsonError(w, http.StatusConflict, err)
	default:
		jsonError(w, http.StatusInternalServerError, err)
	}
}

func jsonError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
