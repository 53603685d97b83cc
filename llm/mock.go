package llm

import "context"

// MockProvider is a mock LLM provider for testing.
type MockProvider struct {
	response    string
	toolCalls   []ToolCall
	stopReason  string
	lastRequest *ChatRequest
	err         error
	callCount   int

	// ChatFunc can be overridden for custom behavior
	ChatFunc func(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// NewMockProvider creates a new mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		stopReason: "end_turn",
	}
}

// SetResponse sets the response content.
func (p *MockProvider) SetResponse(content string) {
	p.response = content
}

// SetToolCall sets a single tool call response.
func (p *MockProvider) SetToolCall(name string, args map[string]interface{}) {
	p.toolCalls = []ToolCall{
		{ID: "tc-1", Name: name, Args: args},
	}
}

// SetToolCalls sets multiple tool call responses.
func (p *MockProvider) SetToolCalls(calls []ToolCall) {
	p.toolCalls = calls
}

// SetError sets an error to return.
func (p *MockProvider) SetError(err error) {
	p.err = err
}

// LastRequest returns the last request.
func (p *MockProvider) LastRequest() *ChatRequest {
	return p.lastRequest
}

// CallCount returns the number of Chat calls made.
func (p *MockProvider) CallCount() int {
	return p.callCount
}

// Chat implements the Provider interface.
func (p *MockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	p.callCount++
	p.lastRequest = &req

	if p.ChatFunc != nil {
		return p.ChatFunc(ctx, req)
	}

	if p.err != nil {
		return nil, p.err
	}

	// Once tool results appear in the transcript, answer with plain
	// content so tool-call loops terminate.
	hasToolResult := false
	for _, msg := range req.Messages {
		if msg.Role == "tool" {
			hasToolResult = true
			break
		}
	}

	if hasToolResult {
		return &ChatResponse{
			Content:    p.response,
			StopReason: p.stopReason,
		}, nil
	}

	return &ChatResponse{
		Content:    p.response,
		ToolCalls:  p.toolCalls,
		StopReason: p.stopReason,
	}, nil
}
