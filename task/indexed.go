package task

import (
	"context"

	"github.com/google/uuid"
)

// IndexedRepository decorates a Repository, keeping a full-text Index
// in sync with every mutation. Reads pass straight through.
type IndexedRepository struct {
	Repository
	index *Index
}

var _ Repository = (*IndexedRepository)(nil)

// NewIndexedRepository wraps repo so writes also update ix.
func NewIndexedRepository(repo Repository, ix *Index) *IndexedRepository {
	return &IndexedRepository{Repository: repo, index: ix}
}

// Index returns the maintained index.
func (r *IndexedRepository) Index() *Index {
	return r.index
}

// Reindex rebuilds index entries for everything currently stored. Run
// once after opening, so tasks written by earlier runs or external
// edits become searchable.
func (r *IndexedRepository) Reindex(ctx context.Context) error {
	tasks, err := r.Repository.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if err := r.index.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// Add implements Repository.
func (r *IndexedRepository) Add(ctx context.Context, t Task) (Task, error) {
	added, err := r.Repository.Add(ctx, t)
	if err != nil {
		return Task{}, err
	}
	if err := r.index.Add(added); err != nil {
		return Task{}, err
	}
	return added, nil
}

// Update implements Repository.
func (r *IndexedRepository) Update(ctx context.Context, t Task) (Task, error) {
	updated, err := r.Repository.Update(ctx, t)
	if err != nil {
		return Task{}, err
	}
	if err := r.index.Add(updated); err != nil {
		return Task{}, err
	}
	return updated, nil
}

// Delete implements Repository.
func (r *IndexedRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := r.Repository.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	if err := r.index.Remove(id); err != nil {
		return true, err
	}
	return true, nil
}
