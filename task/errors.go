package task

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports a rejected payload field. It is returned at
// construction time, before any repository call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when a lookup, update, toggle or delete
// targets an id that does not exist in the repository.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.ID)
}

// RepositoryError wraps a storage-layer failure distinct from "not
// found", such as a disk or permission error during the atomic write
// sequence. Missing or malformed files are not repository errors; they
// read as an empty collection.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
