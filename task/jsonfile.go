package task

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// renameFile is swapped out in tests to simulate a failed final rename.
var renameFile = os.Rename

// JSONRepository stores the whole collection in one JSON file mapping
// id to task. Every call re-reads the file, so the repository never
// serves stale data if the file changed externally, at the cost of
// full-file I/O per call.
//
// Reads are permissive: a missing or malformed file is an empty
// collection, never an error. Writes go to a temporary file in the
// target's directory and land via an atomic rename, so a reader sees
// either the fully-old or the fully-new content.
type JSONRepository struct {
	mu   sync.Mutex
	path string
}

var _ Repository = (*JSONRepository)(nil)

// NewJSONRepository creates a repository backed by the file at path.
// The file is created lazily on the first mutation.
func NewJSONRepository(path string) (*JSONRepository, error) {
	if path == "" {
		return nil, &RepositoryError{Op: "open", Err: errors.New("empty file path")}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &RepositoryError{Op: "open", Err: err}
		}
	}
	return &JSONRepository{path: path}, nil
}

// Path returns the backing file path.
func (r *JSONRepository) Path() string {
	return r.path
}

// loadAll reads and decodes the whole file. Missing and malformed
// files read as empty (permissive-read policy).
func (r *JSONRepository) loadAll() (map[uuid.UUID]Task, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[uuid.UUID]Task{}, nil
		}
		return nil, &RepositoryError{Op: "read", Err: err}
	}
	if len(data) == 0 {
		return map[uuid.UUID]Task{}, nil
	}

	var raw map[string]Task
	if err := json.Unmarshal(data, &raw); err != nil {
		return map[uuid.UUID]Task{}, nil
	}

	tasks := make(map[uuid.UUID]Task, len(raw))
	for k, t := range raw {
		id, err := uuid.Parse(k)
		if err != nil {
			continue
		}
		tasks[id] = t
	}
	return tasks, nil
}

// saveAll serializes the snapshot to a temp file in the target's
// directory, syncs it, and renames it over the target. On any failure
// before the rename completes, the temp file is removed and the
// original file is left untouched.
func (r *JSONRepository) saveAll(tasks map[uuid.UUID]Task) error {
	raw := make(map[string]Task, len(tasks))
	for id, t := range tasks {
		raw[id.String()] = t
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return &RepositoryError{Op: "encode", Err: err}
	}

	// Same directory as the target so the rename stays on one volume.
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".tasks-*.json")
	if err != nil {
		return &RepositoryError{Op: "write", Err: err}
	}
	tmpPath := tmp.Name()

	cleanup := func(cause error, op string) error {
		tmp.Close()
		os.Remove(tmpPath)
		return &RepositoryError{Op: op, Err: cause}
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err, "write")
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err, "sync")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &RepositoryError{Op: "close", Err: err}
	}
	if err := renameFile(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return &RepositoryError{Op: "rename", Err: err}
	}
	return nil
}

// Add inserts the task, overwriting any entry with the same id.
func (r *JSONRepository) Add(ctx context.Context, t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.loadAll()
	if err != nil {
		return Task{}, err
	}
	tasks[t.ID] = t
	if err := r.saveAll(tasks); err != nil {
		return Task{}, err
	}
	return t, nil
}

// GetByID returns the stored task, or nil if absent.
func (r *JSONRepository) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	t, ok := tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// ListAll returns a snapshot of every stored task, in no particular
// order.
func (r *JSONRepository) ListAll(ctx context.Context) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t)
	}
	return out, nil
}

// Update replaces the stored task; an absent id becomes an insert.
func (r *JSONRepository) Update(ctx context.Context, t Task) (Task, error) {
	return r.Add(ctx, t)
}

// Delete removes the task and reports whether the id existed.
func (r *JSONRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.loadAll()
	if err != nil {
		return false, err
	}
	if _, ok := tasks[id]; !ok {
		return false, nil
	}
	delete(tasks, id)
	if err := r.saveAll(tasks); err != nil {
		return false, err
	}
	return true, nil
}
