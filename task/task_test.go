package task

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	got, err := New(Create{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got.ID.String() == "" {
		t.Error("expected a generated id")
	}
	if got.Title != "Buy milk" {
		t.Errorf("expected title %q, got %q", "Buy milk", got.Title)
	}
	if got.Description != "" {
		t.Errorf("expected empty description, got %q", got.Description)
	}
	if got.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %s", got.Priority)
	}
	if len(got.Tags) != 0 {
		t.Errorf("expected no tags, got %v", got.Tags)
	}
	if got.IsCompleted {
		t.Error("new task must not be completed")
	}
	if got.DueDate != nil {
		t.Error("expected no due date")
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		c     Create
		field string
	}{
		{"empty title", Create{Title: ""}, "title"},
		{"too long title", Create{Title: strings.Repeat("x", 101)}, "title"},
		{"bad priority", Create{Title: "ok", Priority: "urgent"}, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.c)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}

	// 100 characters is still valid.
	if _, err := New(Create{Title: strings.Repeat("x", 100)}); err != nil {
		t.Errorf("100-char title should be valid, got %v", err)
	}
}

func TestNewPreservesTagOrderAndDuplicates(t *testing.T) {
	tags := []string{"home", "urgent", "home"}
	got, err := New(Create{Title: "t", Tags: tags})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(got.Tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(got.Tags))
	}
	for i, want := range tags {
		if got.Tags[i] != want {
			t.Errorf("tag %d: expected %q, got %q", i, want, got.Tags[i])
		}
	}

	// The task owns its own copy.
	tags[0] = "mutated"
	if got.Tags[0] != "home" {
		t.Error("task tags must not alias the payload slice")
	}
}

func TestUpdateValidation(t *testing.T) {
	empty := ""
	if err := (Update{Title: &empty}).Validate(); err == nil {
		t.Error("expected error for empty title patch")
	}
	bad := Priority("critical")
	if err := (Update{Priority: &bad}).Validate(); err == nil {
		t.Error("expected error for invalid priority patch")
	}
	if err := (Update{}).Validate(); err != nil {
		t.Errorf("empty patch should be valid, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	due := time.Now().UTC()
	orig, _ := New(Create{Title: "t", Tags: []string{"a"}, DueDate: &due})

	c := orig.Clone()
	c.Tags[0] = "b"
	*c.DueDate = due.Add(time.Hour)

	if orig.Tags[0] != "a" {
		t.Error("clone shares the tags slice")
	}
	if !orig.DueDate.Equal(due) {
		t.Error("clone shares the due date pointer")
	}
}
