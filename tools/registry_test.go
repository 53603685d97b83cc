package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/avinashraj/todokit/task"
)

func newTestRegistry() (*Registry, *task.Engine) {
	engine := task.NewEngine(task.NewMemoryRepository())
	r := NewRegistry(func(ctx context.Context) (*task.Engine, error) {
		return engine, nil
	})
	return r, engine
}

func TestRegistryBuiltins(t *testing.T) {
	r, _ := newTestRegistry()

	for _, name := range []string{
		"create_task", "list_tasks", "search_tasks",
		"update_task", "complete_task", "delete_task",
	} {
		if !r.Has(name) {
			t.Errorf("missing builtin tool %s", name)
		}
	}

	defs := r.Definitions()
	if len(defs) != 6 {
		t.Fatalf("expected 6 definitions, got %d", len(defs))
	}
	if defs[0].Name != "create_task" {
		t.Errorf("definitions must keep registration order, got %s first", defs[0].Name)
	}
	for _, d := range defs {
		if d.Description == "" || d.Parameters == nil {
			t.Errorf("tool %s has incomplete definition", d.Name)
		}
	}
}

func TestCreateTaskTool(t *testing.T) {
	r, engine := newTestRegistry()
	ctx := context.Background()

	result, err := r.Get("create_task").Execute(ctx, map[string]interface{}{
		"title":    "buy milk",
		"priority": "high",
		"tags":     []interface{}{"errand", "home"},
		"due_date": "2026-09-01",
	})
	if err != nil {
		t.Fatalf("create_task failed: %v", err)
	}

	created, ok := result.(task.Task)
	if !ok {
		t.Fatalf("expected task.Task, got %T", result)
	}
	if created.Title != "buy milk" || created.Priority != task.PriorityHigh {
		t.Errorf("unexpected task %+v", created)
	}
	if created.DueDate == nil {
		t.Error("due date was not set")
	}

	got, err := engine.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("task not persisted: %v", err)
	}
	if len(got.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", got.Tags)
	}
}

func TestCreateTaskToolRequiresTitle(t *testing.T) {
	r, _ := newTestRegistry()

	if _, err := r.Get("create_task").Execute(context.Background(), map[string]interface{}{}); err == nil {
		t.Error("expected error for missing title")
	}
}

func TestListTasksToolFilters(t *testing.T) {
	r, engine := newTestRegistry()
	ctx := context.Background()

	engine.CreateTask(ctx, task.Create{Title: "a", Priority: task.PriorityHigh})
	done, _ := engine.CreateTask(ctx, task.Create{Title: "b", Priority: task.PriorityLow})
	engine.ToggleTask(ctx, done.ID)

	result, err := r.Get("list_tasks").Execute(ctx, map[string]interface{}{
		"status": "pending",
	})
	if err != nil {
		t.Fatalf("list_tasks failed: %v", err)
	}
	tasks := result.([]task.Task)
	if len(tasks) != 1 || tasks[0].Title != "a" {
		t.Errorf("expected only pending task a, got %+v", tasks)
	}

	if _, err := r.Get("list_tasks").Execute(ctx, map[string]interface{}{"status": "archived"}); err == nil {
		t.Error("expected error for bad status enum")
	}
}

func TestListTasksToolLimit(t *testing.T) {
	r, engine := newTestRegistry()
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		engine.CreateTask(ctx, task.Create{Title: title})
	}

	result, err := r.Get("list_tasks").Execute(ctx, map[string]interface{}{
		"limit": float64(2),
	})
	if err != nil {
		t.Fatalf("list_tasks failed: %v", err)
	}
	if tasks := result.([]task.Task); len(tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(tasks))
	}
}

func TestSearchTasksTool(t *testing.T) {
	r, engine := newTestRegistry()
	ctx := context.Background()

	engine.CreateTask(ctx, task.Create{Title: "Write report"})
	engine.CreateTask(ctx, task.Create{Title: "call dentist"})

	result, err := r.Get("search_tasks").Execute(ctx, map[string]interface{}{
		"query": "REPORT",
	})
	if err != nil {
		t.Fatalf("search_tasks failed: %v", err)
	}
	tasks := result.([]task.Task)
	if len(tasks) != 1 || tasks[0].Title != "Write report" {
		t.Errorf("unexpected search result %+v", tasks)
	}
}

func TestUpdateTaskTool(t *testing.T) {
	r, engine := newTestRegistry()
	ctx := context.Background()

	created, _ := engine.CreateTask(ctx, task.Create{Title: "draft", Tags: []string{"work"}})

	result, err := r.Get("update_task").Execute(ctx, map[string]interface{}{
		"task_id": created.ID.String(),
		"title":   "final draft",
		"status":  "completed",
	})
	if err != nil {
		t.Fatalf("update_task failed: %v", err)
	}

	updated := result.(task.Task)
	if updated.Title != "final draft" || !updated.IsCompleted {
		t.Errorf("unexpected update result %+v", updated)
	}
	if len(updated.Tags) != 1 {
		t.Errorf("untouched tags must survive, got %v", updated.Tags)
	}
}

func TestUpdateTaskToolRejectsBadID(t *testing.T) {
	r, _ := newTestRegistry()

	if _, err := r.Get("update_task").Execute(context.Background(), map[string]interface{}{
		"task_id": "not-a-uuid",
	}); err == nil {
		t.Error("expected error for malformed task_id")
	}
}

func TestCompleteTaskTool(t *testing.T) {
	r, engine := newTestRegistry()
	ctx := context.Background()

	created, _ := engine.CreateTask(ctx, task.Create{Title: "ship it"})

	result, err := r.Get("complete_task").Execute(ctx, map[string]interface{}{
		"task_id": created.ID.String(),
	})
	if err != nil {
		t.Fatalf("complete_task failed: %v", err)
	}
	if !result.(task.Task).IsCompleted {
		t.Error("task was not marked completed")
	}
}

func TestDeleteTaskTool(t *testing.T) {
	r, engine := newTestRegistry()
	ctx := context.Background()

	created, _ := engine.CreateTask(ctx, task.Create{Title: "temp"})

	if _, err := r.Get("delete_task").Execute(ctx, map[string]interface{}{
		"task_id": created.ID.String(),
	}); err != nil {
		t.Fatalf("delete_task failed: %v", err)
	}
	if _, err := engine.GetTask(ctx, created.ID); err == nil {
		t.Error("task still present after delete")
	}

	// Deleting a missing task surfaces the not-found error.
	if _, err := r.Get("delete_task").Execute(ctx, map[string]interface{}{
		"task_id": uuid.New().String(),
	}); err == nil {
		t.Error("expected error for unknown task")
	}
}

func TestRegistryExecuteRendersText(t *testing.T) {
	r, engine := newTestRegistry()
	ctx := context.Background()

	engine.CreateTask(ctx, task.Create{Title: "visible"})

	out := r.Execute(ctx, "list_tasks", map[string]interface{}{})
	if !strings.Contains(out, "visible") {
		t.Errorf("expected rendered task list, got %q", out)
	}

	out = r.Execute(ctx, "no_such_tool", nil)
	if !strings.Contains(out, "unknown tool") {
		t.Errorf("expected unknown tool message, got %q", out)
	}

	out = r.Execute(ctx, "create_task", map[string]interface{}{})
	if !strings.HasPrefix(out, "error:") {
		t.Errorf("expected error text, got %q", out)
	}
}
