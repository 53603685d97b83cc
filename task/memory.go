package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps tasks in a process-local map. Nothing survives
// a restart. ListAll returns tasks in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]Task
	order []uuid.UUID
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tasks: make(map[uuid.UUID]Task),
	}
}

// Add inserts the task, overwriting any entry with the same id.
func (r *MemoryRepository) Add(ctx context.Context, t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.tasks[t.ID] = t.Clone()
	return t, nil
}

// GetByID returns the stored task, or nil if absent.
func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	c := t.Clone()
	return &c, nil
}

// ListAll returns a snapshot of every task in insertion order.
func (r *MemoryRepository) ListAll(ctx context.Context) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tasks[id].Clone())
	}
	return out, nil
}

// Update replaces the stored task; an absent id becomes an insert.
func (r *MemoryRepository) Update(ctx context.Context, t Task) (Task, error) {
	return r.Add(ctx, t)
}

// Delete removes the task and reports whether the id existed.
func (r *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}
