package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/avinashraj/todokit/task"
)

// parseDueDate accepts RFC 3339 timestamps and bare dates.
func parseDueDate(s string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("due_date must be an ISO date or timestamp, got %q", s)
}

// createTaskTool creates a task for the user.
type createTaskTool struct {
	resolve EngineResolver
}

func (t *createTaskTool) Name() string { return "create_task" }

func (t *createTaskTool) Description() string {
	return "Create a new task for the user"
}

func (t *createTaskTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Task title",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Task description (optional)",
			},
			"due_date": map[string]interface{}{
				"type":        "string",
				"description": "Due date in ISO format (optional)",
			},
			"priority": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{"low", "medium", "high"},
				"description": "Task priority (optional, default: medium)",
			},
			"tags": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Task tags (optional)",
			},
		},
		"required": []string{"title"},
	}
}

func (t *createTaskTool) Execute(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
	args := Args(raw)
	title, err := args.String("title")
	if err != nil {
		return nil, err
	}

	c := task.Create{
		Title:       title,
		Description: args.StringOr("description", ""),
		Priority:    task.Priority(args.StringOr("priority", "")),
		Tags:        args.StringSliceOr("tags", nil),
	}
	if due := args.StringOr("due_date", ""); due != "" {
		d, err := parseDueDate(due)
		if err != nil {
			return nil, err
		}
		c.DueDate = d
	}

	engine, err := t.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return engine.CreateTask(ctx, c)
}

// listTasksTool lists tasks with optional filters.
type listTasksTool struct {
	resolve EngineResolver
}

func (t *listTasksTool) Name() string { return "list_tasks" }

func (t *listTasksTool) Description() string {
	return "List tasks for the user with optional filters"
}

func (t *listTasksTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"status": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{"pending", "completed"},
				"description": "Filter by status (optional)",
			},
			"priority": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{"low", "medium", "high"},
				"description": "Filter by priority (optional)",
			},
			"tag": map[string]interface{}{
				"type":        "string",
				"description": "Filter by tag (optional)",
			},
			"sort": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{"alpha", "priority"},
				"description": "Sort order (optional, default: creation order)",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of tasks to return (default: 50)",
			},
		},
		"required": []string{},
	}
}

func (t *listTasksTool) Execute(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
	args := Args(raw)

	status, err := parseStatus(args.StringOr("status", ""))
	if err != nil {
		return nil, err
	}

	opts := task.ListOptions{
		Status:   status,
		Priority: task.Priority(args.StringOr("priority", "")),
		Tag:      args.StringOr("tag", ""),
		SortBy:   args.StringOr("sort", ""),
	}

	engine, err := t.resolve(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := engine.ListTasks(ctx, opts)
	if err != nil {
		return nil, err
	}

	limit := args.IntOr("limit", 50)
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

// searchTasksTool searches titles and descriptions by keyword.
type searchTasksTool struct {
	resolve EngineResolver
}

func (t *searchTasksTool) Name() string { return "search_tasks" }

func (t *searchTasksTool) Description() string {
	return "Search the user's tasks by keyword in title and description"
}

func (t *searchTasksTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Keyword to search for (case-insensitive)",
			},
		},
		"required": []string{"query"},
	}
}

func (t *searchTasksTool) Execute(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
	args := Args(raw)
	query, err := args.String("query")
	if err != nil {
		return nil, err
	}

	engine, err := t.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return engine.SearchTasks(ctx, query)
}

// updateTaskTool applies a partial update to a task.
type updateTaskTool struct {
	resolve EngineResolver
}

func (t *updateTaskTool) Name() string { return "update_task" }

func (t *updateTaskTool) Description() string {
	return "Update an existing task"
}

func (t *updateTaskTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"task_id": map[string]interface{}{
				"type":        "string",
				"description": "Task ID (UUID format)",
			},
			"title": map[string]interface{}{
				"type":        "string",
				"description": "New task title (optional)",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "New task description (optional)",
			},
			"status": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{"pending", "completed"},
				"description": "New task status (optional)",
			},
			"due_date": map[string]interface{}{
				"type":        "string",
				"description": "New due date in ISO format (optional)",
			},
			"priority": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{"low", "medium", "high"},
				"description": "New task priority (optional)",
			},
			"tags": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "New task tags (optional)",
			},
		},
		"required": []string{"task_id"},
	}
}

func (t *updateTaskTool) Execute(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
	args := Args(raw)
	id, err := parseTaskID(args)
	if err != nil {
		return nil, err
	}

	var u task.Update
	if args.Has("title") {
		title := args.StringOr("title", "")
		u.Title = &title
	}
	if args.Has("description") {
		desc := args.StringOr("description", "")
		u.Description = &desc
	}
	if args.Has("priority") {
		p := task.Priority(args.StringOr("priority", ""))
		u.Priority = &p
	}
	if args.Has("tags") {
		u.Tags = args.StringSliceOr("tags", []string{})
	}
	if status := args.StringOr("status", ""); status != "" {
		completed, err := parseStatus(status)
		if err != nil {
			return nil, err
		}
		u.IsCompleted = completed
	}
	if due := args.StringOr("due_date", ""); due != "" {
		d, err := parseDueDate(due)
		if err != nil {
			return nil, err
		}
		u.DueDate = d
	}

	engine, err := t.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return engine.UpdateTask(ctx, id, u)
}

// completeTaskTool marks a task completed.
type completeTaskTool struct {
	resolve EngineResolver
}

func (t *completeTaskTool) Name() string { return "complete_task" }

func (t *completeTaskTool) Description() string {
	return "Mark a task as completed"
}

func (t *completeTaskTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"task_id": map[string]interface{}{
				"type":        "string",
				"description": "Task ID (UUID format)",
			},
		},
		"required": []string{"task_id"},
	}
}

func (t *completeTaskTool) Execute(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
	id, err := parseTaskID(Args(raw))
	if err != nil {
		return nil, err
	}

	engine, err := t.resolve(ctx)
	if err != nil {
		return nil, err
	}
	completed := true
	return engine.UpdateTask(ctx, id, task.Update{IsCompleted: &completed})
}

// deleteTaskTool deletes a task.
type deleteTaskTool struct {
	resolve EngineResolver
}

func (t *deleteTaskTool) Name() string { return "delete_task" }

func (t *deleteTaskTool) Description() string {
	return "Delete a task"
}

func (t *deleteTaskTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"task_id": map[string]interface{}{
				"type":        "string",
				"description": "Task ID (UUID format)",
			},
		},
		"required": []string{"task_id"},
	}
}

func (t *deleteTaskTool) Execute(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
	id, err := parseTaskID(Args(raw))
	if err != nil {
		return nil, err
	}

	engine, err := t.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := engine.DeleteTask(ctx, id); err != nil {
		return nil, err
	}
	return "task deleted", nil
}
