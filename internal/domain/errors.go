package domain

import (
	"fmt"
)

// An unknown order id is not an error in this package: reads and status
// updates surface it as a nil result, and only the HTTP boundary turns that
// into a 404.

// ValidationError rejects malformed input before anything is persisted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PersistenceError wraps an unrecoverable store failure. The operation that
// hit it is aborted; no event is emitted for a write that did not land.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
