package task

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func newFileRepo(t *testing.T) *JSONRepository {
	t.Helper()
	repo, err := NewJSONRepository(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("NewJSONRepository failed: %v", err)
	}
	return repo
}

func TestJSONRepositoryRoundTrip(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	task, _ := New(Create{Title: "persist me", Tags: []string{"a", "b"}})
	if _, err := repo.Add(ctx, task); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// A second repository on the same file sees the write.
	reopened, err := NewJSONRepository(repo.Path())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := reopened.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected the task to survive reopen")
	}
	if got.Title != task.Title || len(got.Tags) != 2 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("created_at mismatch: %v vs %v", got.CreatedAt, task.CreatedAt)
	}
}

func TestJSONRepositoryMissingFileIsEmpty(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll on a missing file must not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty collection, got %d", len(got))
	}

	task, err := repo.GetByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("GetByID on a missing file must not error: %v", err)
	}
	if task != nil {
		t.Error("expected nil task")
	}
}

func TestJSONRepositoryMalformedFileIsEmpty(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	if err := os.WriteFile(repo.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write malformed file: %v", err)
	}

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("permissive read must not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("malformed content must read as empty, got %d", len(got))
	}
}

func TestJSONRepositoryAtomicWriteFailure(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	first, _ := New(Create{Title: "already saved"})
	if _, err := repo.Add(ctx, first); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	before, err := os.ReadFile(repo.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	// Force the final rename to fail mid-write.
	renameFile = func(oldpath, newpath string) error {
		return errors.New("injected rename failure")
	}
	defer func() { renameFile = os.Rename }()

	second, _ := New(Create{Title: "never lands"})
	_, err = repo.Add(ctx, second)
	var repoErr *RepositoryError
	if !errors.As(err, &repoErr) {
		t.Fatalf("expected RepositoryError, got %v", err)
	}

	// The original file is byte-identical.
	after, err := os.ReadFile(repo.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("interrupted write must leave the target untouched")
	}

	// No temp file is left behind.
	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file in the directory, found %d entries", len(entries))
	}
}

func TestJSONRepositoryDelete(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	task, _ := New(Create{Title: "delete me"})
	repo.Add(ctx, task)

	ok, err := repo.Delete(ctx, task.ID)
	if err != nil || !ok {
		t.Fatalf("expected delete to succeed, ok=%v err=%v", ok, err)
	}
	ok, err = repo.Delete(ctx, task.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok {
		t.Error("deleting an absent id must report false")
	}
}

func TestJSONRepositorySeesExternalChanges(t *testing.T) {
	repo := newFileRepo(t)
	ctx := context.Background()

	task, _ := New(Create{Title: "mine"})
	repo.Add(ctx, task)

	// A second instance mutates the same file between calls.
	other, _ := NewJSONRepository(repo.Path())
	if _, err := other.Delete(ctx, task.ID); err != nil {
		t.Fatalf("external delete failed: %v", err)
	}

	got, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Error("repository must not cache between calls")
	}
}

func TestEngineOnJSONRepository(t *testing.T) {
	repo := newFileRepo(t)
	e := NewEngine(repo)
	ctx := context.Background()

	created, err := e.CreateTask(ctx, Create{Title: "file backed"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	toggled, err := e.ToggleTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !toggled.IsCompleted {
		t.Error("toggle did not persist")
	}
	if err := e.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	var nf *NotFoundError
	if _, err := e.GetTask(ctx, created.ID); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}
}
