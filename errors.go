package echoform

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references a session that does
// not exist in memory. It is surfaced to Turn API callers and never silently
// repaired by creating the session.
var ErrNotFound = errors.New("session not found")

// StorageError wraps a backing-store failure. Each persistence call is
// independently atomic, so a StorageError means that single operation did
// not commit; earlier steps of the turn remain durable.
type StorageError struct {
	Op  string // the memory operation that failed, e.g. "append message"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
