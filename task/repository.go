package task

import (
	"context"

	"github.com/google/uuid"
)

// Repository is durable or in-memory storage for a keyed collection of
// tasks. The Engine owns all business rules; a repository only stores
// and retrieves.
//
// Ids are generated by the caller (uuid.New at construction), never by
// the repository, so Add treats an existing id as an overwrite rather
// than an error. Both bundled implementations apply that policy.
type Repository interface {
	// Add inserts the task, overwriting any entry with the same id.
	Add(ctx context.Context, t Task) (Task, error)

	// GetByID returns the stored task, or nil if the id is absent.
	// A missing id is not an error.
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// ListAll returns a snapshot of every stored task. The in-memory
	// backend returns insertion order; other backends guarantee no
	// particular order, so callers needing one must sort.
	ListAll(ctx context.Context) ([]Task, error)

	// Update replaces the stored task at t.ID. An absent id is treated
	// as an insert; existence checks belong to the Engine.
	Update(ctx context.Context, t Task) (Task, error)

	// Delete removes the task and reports whether the id existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
