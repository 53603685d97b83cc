package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func newIndexedRepo(t *testing.T) *IndexedRepository {
	t.Helper()
	ix, err := NewIndex("")
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return NewIndexedRepository(NewMemoryRepository(), ix)
}

func TestIndexedRepositoryTracksMutations(t *testing.T) {
	repo := newIndexedRepo(t)
	engine := NewEngine(repo)
	ctx := context.Background()

	created, err := engine.CreateTask(ctx, Create{Title: "groceries", Description: "milk and eggs"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	ids, err := repo.Index().Search("milk", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != created.ID {
		t.Errorf("expected created task in index, got %v", ids)
	}

	// Update re-indexes the new text.
	newTitle := "weekly shopping"
	if _, err := engine.UpdateTask(ctx, created.ID, Update{Title: &newTitle}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	ids, _ = repo.Index().Search("shopping", 10)
	if len(ids) != 1 {
		t.Errorf("updated title not searchable, got %v", ids)
	}

	// Delete removes the document.
	if err := engine.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	ids, _ = repo.Index().Search("shopping", 10)
	if len(ids) != 0 {
		t.Errorf("deleted task still indexed: %v", ids)
	}
}

func TestIndexedRepositoryReindex(t *testing.T) {
	mem := NewMemoryRepository()
	ctx := context.Background()

	seeded, _ := New(Create{Title: "preexisting entry"})
	if _, err := mem.Add(ctx, seeded); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ix, err := NewIndex("")
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	defer ix.Close()

	repo := NewIndexedRepository(mem, ix)
	if err := repo.Reindex(ctx); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	ids, err := repo.Index().Search("preexisting", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != seeded.ID {
		t.Errorf("seeded task not found after reindex, got %v", ids)
	}

	// Unknown ids coming back from a stale index are simply skipped by
	// callers; deleting one here must not error.
	if err := repo.Index().Remove(uuid.New()); err != nil {
		t.Errorf("Remove of unknown id failed: %v", err)
	}
}
