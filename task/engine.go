package task

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Sort orders accepted by ListTasks. Any other value leaves the
// filtered snapshot order unchanged.
const (
	SortAlpha    = "alpha"
	SortPriority = "priority"
)

// ListOptions filters and orders a ListTasks call. Filters compose
// with logical AND; zero values mean "no filter".
type ListOptions struct {
	// Status keeps only tasks whose completion flag equals it.
	Status *bool

	// Priority keeps only exact priority matches.
	Priority Priority

	// Tag keeps only tasks whose tag list contains it, case-sensitive.
	Tag string

	// SortBy is SortAlpha, SortPriority, or anything else for
	// snapshot order.
	SortBy string
}

// Engine exposes the task lifecycle with consistent validation and
// querying semantics, independent of the repository backend.
type Engine struct {
	repo Repository
}

// NewEngine creates an engine on top of the given repository.
func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// CreateTask validates the payload, constructs the task and persists
// it. Nothing is written for a rejected payload.
func (e *Engine) CreateTask(ctx context.Context, c Create) (Task, error) {
	t, err := New(c)
	if err != nil {
		return Task{}, err
	}
	return e.repo.Add(ctx, t)
}

// GetTask returns the task or a NotFoundError carrying the id. This is
// the one read that errors on a missing id; it lets mutating
// operations and direct lookups short-circuit cleanly.
func (e *Engine) GetTask(ctx context.Context, id uuid.UUID) (Task, error) {
	t, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if t == nil {
		return Task{}, &NotFoundError{ID: id}
	}
	return *t, nil
}

// ListTasks returns the snapshot filtered by status, priority and tag,
// then sorted per opts.SortBy. Both sorts are stable, so ties keep
// their filtered order.
func (e *Engine) ListTasks(ctx context.Context, opts ListOptions) ([]Task, error) {
	tasks, err := e.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := tasks[:0:0]
	for _, t := range tasks {
		if opts.Status != nil && t.IsCompleted != *opts.Status {
			continue
		}
		if opts.Priority != "" && t.Priority != opts.Priority {
			continue
		}
		if opts.Tag != "" && !containsTag(t.Tags, opts.Tag) {
			continue
		}
		filtered = append(filtered, t)
	}

	switch opts.SortBy {
	case SortAlpha:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Title) < strings.ToLower(filtered[j].Title)
		})
	case SortPriority:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Priority.rank() < filtered[j].Priority.rank()
		})
	}

	return filtered, nil
}

// SearchTasks returns every task whose title or description contains
// the keyword, case-insensitive, in snapshot order. No ranking.
func (e *Engine) SearchTasks(ctx context.Context, keyword string) ([]Task, error) {
	tasks, err := e.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	k := strings.ToLower(keyword)
	matches := tasks[:0:0]
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), k) ||
			strings.Contains(strings.ToLower(t.Description), k) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// UpdateTask applies the patch to the stored task. Fields absent from
// the patch keep their prior values.
func (e *Engine) UpdateTask(ctx context.Context, id uuid.UUID, u Update) (Task, error) {
	if err := u.Validate(); err != nil {
		return Task{}, err
	}
	t, err := e.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	return e.repo.Update(ctx, u.apply(t))
}

// ToggleTask flips the completion flag. Calling it twice restores the
// original state.
func (e *Engine) ToggleTask(ctx context.Context, id uuid.UUID) (Task, error) {
	t, err := e.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	t.IsCompleted = !t.IsCompleted
	return e.repo.Update(ctx, t)
}

// DeleteTask removes the task, or returns a NotFoundError if the
// repository reports no such id.
func (e *Engine) DeleteTask(ctx context.Context, id uuid.UUID) error {
	ok, err := e.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{ID: id}
	}
	return nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
