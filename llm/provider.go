// Package llm abstracts the chat-completion providers used by the todo
// assistant: OpenAI, Anthropic, Google Gemini, and any OpenAI-compatible
// endpoint such as Groq.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Message is one turn in a conversation.
type Message struct {
	Role       string     `json:"role"` // system, user, assistant, tool
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on tool result messages
	ToolName   string     `json:"tool_name,omitempty"`    // set on tool result messages
}

// ToolDef describes a callable tool to the model.
type ToolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// ChatRequest is one completion request.
type ChatRequest struct {
	Messages  []Message `json:"messages"`
	Tools     []ToolDef `json:"tools,omitempty"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// ChatResponse is the model's reply.
type ChatResponse struct {
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	StopReason   string     `json:"stop_reason"`
	InputTokens  int        `json:"input_tokens"`
	OutputTokens int        `json:"output_tokens"`
	Model        string     `json:"model"`
}

// Provider is the interface all model backends implement.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider  string // openai, anthropic, google, groq
	Model     string
	APIKey    string
	BaseURL   string // custom endpoint for OpenAI-compatible providers
	MaxTokens int
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("llm provider is required")
	}
	if c.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("llm api key is required")
	}
	return nil
}

// Retry settings shared by all providers.
const (
	maxRetries    = 3
	initBackoff   = time.Second
	maxBackoff    = 30 * time.Second
	backoffFactor = 2.0
)

// withRetry runs call, backing off on transient provider errors.
func withRetry(ctx context.Context, name string, call func() error) error {
	backoff := initBackoff
	for attempt := 0; ; attempt++ {
		err := call()
		if err == nil {
			return nil
		}
		if !isRetryableError(err) {
			return fmt.Errorf("%s request failed: %w", name, err)
		}
		if attempt == maxRetries {
			return fmt.Errorf("%s request failed after %d retries: %w", name, maxRetries, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * backoffFactor)
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
