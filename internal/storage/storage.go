// Package storage provides the persistence gateway: a small string-keyed
// blob store holding the serialized task collections.
package storage

import "fmt"

// Blob keys for the three task collections, plus the pending undo record
// that lets a later process restore the last soft delete.
const (
	KeyTodos    = "todos"
	KeyArchived = "archivedTodos"
	KeyTrashed  = "trashedTodos"
	KeyUndo     = "undoState"
)

// Gateway is the durable key-value store the task store reads at startup
// and rewrites after every mutation. Get returns (nil, nil) for a missing
// key.
type Gateway interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Open creates a gateway for the given backend name.
func Open(backend, dir string) (Gateway, error) {
	switch backend {
	case "", "file":
		return NewFileStore(dir)
	case "badger":
		return NewBadgerStore(dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
