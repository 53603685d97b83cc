package task

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Title length bounds, counted in characters.
const (
	MinTitleLen = 1
	MaxTitleLen = 100
)

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three defined levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// rank orders priorities for sorting: high before medium before low.
// Unknown values sort with medium.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Task is a single todo item. ID and CreatedAt are assigned once at
// creation and never change; everything else is mutated through the
// Engine only.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	IsCompleted bool       `json:"is_completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = make([]string, len(t.Tags))
		copy(c.Tags, t.Tags)
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return c
}

// Create is the payload for creating a task. Title is required;
// everything else defaults (empty description, medium priority, no tags).
type Create struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Update is a partial patch for an existing task. Nil fields are left
// unchanged; a non-nil empty Tags slice replaces the tags with none.
// A set DueDate replaces the due date; clearing it is not supported.
type Update struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	IsCompleted *bool      `json:"is_completed,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// validateTitle enforces the 1-100 character bound.
func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < MinTitleLen {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if n > MaxTitleLen {
		return &ValidationError{Field: "title", Reason: "must be at most 100 characters"}
	}
	return nil
}

// Validate checks the creation payload without touching any repository.
func (c Create) Validate() error {
	if err := validateTitle(c.Title); err != nil {
		return err
	}
	if c.Priority != "" && !c.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	return nil
}

// Validate checks the patch payload without touching any repository.
func (u Update) Validate() error {
	if u.Title != nil {
		if err := validateTitle(*u.Title); err != nil {
			return err
		}
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	return nil
}

// New constructs a Task from a creation payload, assigning a fresh id
// and creation timestamp. The payload is validated first, so a rejected
// create never produces a task.
func New(c Create) (Task, error) {
	if err := c.Validate(); err != nil {
		return Task{}, err
	}

	priority := c.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	// Tag order and duplicates are preserved as given.
	tags := make([]string, len(c.Tags))
	copy(tags, c.Tags)

	t := Task{
		ID:          uuid.New(),
		Title:       c.Title,
		Description: c.Description,
		Priority:    priority,
		Tags:        tags,
		CreatedAt:   time.Now().UTC(),
	}
	if c.DueDate != nil {
		due := *c.DueDate
		t.DueDate = &due
	}
	return t, nil
}

// apply merges the patch into the task and returns the result.
func (u Update) apply(t Task) Task {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Tags != nil {
		tags := make([]string, len(u.Tags))
		copy(tags, u.Tags)
		t.Tags = tags
	}
	if u.IsCompleted != nil {
		t.IsCompleted = *u.IsCompleted
	}
	if u.DueDate != nil {
		due := *u.DueDate
		t.DueDate = &due
	}
	return t
}
