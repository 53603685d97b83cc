package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/avinashraj/todokit/task"
)

// Tool represents an executable tool.
type Tool interface {
	// Name returns the tool name.
	Name() string
	// Description returns a description for the LLM.
	Description() string
	// Parameters returns the JSON schema for parameters.
	Parameters() map[string]interface{}
	// Execute runs the tool with the given arguments.
	Execute(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

// ToolDefinition is the LLM-facing tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// EngineResolver returns the task engine for the user carried by ctx.
// Each user has their own engine, so tools resolve it per call.
type EngineResolver func(ctx context.Context) (*task.Engine, error)

// Registry holds all registered tools.
type Registry struct {
	tools []Tool
	index map[string]Tool
}

// NewRegistry creates a registry with the built-in task tools.
func NewRegistry(resolve EngineResolver) *Registry {
	r := &Registry{index: make(map[string]Tool)}
	r.Register(&createTaskTool{resolve: resolve})
	r.Register(&listTasksTool{resolve: resolve})
	r.Register(&searchTasksTool{resolve: resolve})
	r.Register(&updateTaskTool{resolve: resolve})
	r.Register(&completeTaskTool{resolve: resolve})
	r.Register(&deleteTaskTool{resolve: resolve})
	return r
}

// Register adds a tool to the registry.
func (r *Registry) Register(t Tool) {
	if _, ok := r.index[t.Name()]; !ok {
		r.tools = append(r.tools, t)
	}
	r.index[t.Name()] = t
}

// Get returns a tool by name, or nil if not found.
func (r *Registry) Get(name string) Tool {
	return r.index[name]
}

// Has returns true if the registry has a tool with the given name.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[name]
	return ok
}

// Definitions returns LLM-facing definitions in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Execute runs the named tool and renders its result as JSON text for
// the model. Tool errors come back as text too, so the model can
// recover instead of aborting the conversation.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) string {
	t := r.Get(name)
	if t == nil {
		return fmt.Sprintf("unknown tool: %s", name)
	}

	result, err := t.Execute(ctx, args)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if s, ok := result.(string); ok {
		return s
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// parseTaskID parses the task_id argument shared by the mutating tools.
func parseTaskID(args Args) (uuid.UUID, error) {
	raw, err := args.String("task_id")
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("task_id must be a UUID: %v", err)
	}
	return id, nil
}

// parseStatus maps the pending/completed enum to a completion flag.
func parseStatus(s string) (*bool, error) {
	switch s {
	case "":
		return nil, nil
	case "pending":
		f := false
		return &f, nil
	case "completed":
		t := true
		return &t, nil
	default:
		return nil, fmt.Errorf("status must be pending or completed, got %q", s)
	}
}
