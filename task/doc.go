// Package task implements the todo domain: the Task entity, the
// Repository storage abstraction with in-memory and JSON-file backends,
// and the Engine that applies validation, filtering, sorting and search
// on top of whichever backend is plugged in.
//
// # Basic Usage
//
//	repo := task.NewMemoryRepository()
//	engine := task.NewEngine(repo)
//
//	created, err := engine.CreateTask(ctx, task.Create{Title: "Buy milk"})
//	tasks, err := engine.ListTasks(ctx, task.ListOptions{SortBy: task.SortAlpha})
//
// For durable storage, use the JSON-file backend:
//
//	repo, err := task.NewJSONRepository("tasks.json")
//
// The file backend re-reads the whole file on every call and persists
// every mutation with a write-temp-then-rename sequence, so readers
// never observe a partially written file.
//
// # Concurrency
//
// Both repositories guard their read-modify-write spans with a
// per-instance mutex. There is no cross-process coordination: two
// processes sharing one tasks file race, and the last writer wins.
package task
