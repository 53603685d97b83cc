package chat

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"

	apperr "github.com/avinashraj/todokit/errors"
	"github.com/avinashraj/todokit/llm"
	"github.com/avinashraj/todokit/logging"
	"github.com/avinashraj/todokit/tools"
)

const (
	// MaxMessageLen bounds a single user message.
	MaxMessageLen = 2000

	// historyWindow is how many stored turns are replayed as context.
	historyWindow = 50

	// maxToolRounds caps provider round-trips per message so a model
	// stuck on tool calls cannot loop forever.
	maxToolRounds = 5
)

const systemPrompt = `You are a task management assistant.

Help users manage their tasks through natural, conversational interactions.

Only use tools when the user explicitly asks for a task operation
(creating, listing, searching, updating, completing or deleting tasks).
Do not use tools for greetings or general conversation.

Be conversational, concise and informative. When you list tasks,
summarize them in plain language rather than dumping raw data.`

// Assistant answers user messages, calling task tools as the model
// requests and persisting the user and assistant turns.
type Assistant struct {
	provider llm.Provider
	registry *tools.Registry
	history  *HistoryStore
	log      *logging.Logger
}

// NewAssistant wires the assistant together.
func NewAssistant(provider llm.Provider, registry *tools.Registry, history *HistoryStore, log *logging.Logger) *Assistant {
	return &Assistant{
		provider: provider,
		registry: registry,
		history:  history,
		log:      log.WithComponent("assistant"),
	}
}

// Send runs one full exchange: validate, replay history, loop through
// tool calls until the model answers in text, then persist both turns.
func (a *Assistant) Send(ctx context.Context, userID uuid.UUID, text string) (Message, error) {
	if text == "" {
		return Message{}, apperr.New(apperr.CodeInvalidInput, "message cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxMessageLen {
		return Message{}, apperr.Newf(apperr.CodeInvalidInput,
			"message is too long, keep it under %d characters", MaxMessageLen)
	}

	past, err := a.history.Recent(userID, historyWindow)
	if err != nil {
		return Message{}, err
	}

	messages := make([]llm.Message, 0, len(past)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	for _, m := range past {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: text})

	defs := a.registry.Definitions()
	toolDefs := make([]llm.ToolDef, 0, len(defs))
	for _, d := range defs {
		toolDefs = append(toolDefs, llm.ToolDef{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}

	var reply string
	for round := 0; ; round++ {
		resp, err := a.provider.Chat(ctx, llm.ChatRequest{
			Messages: messages,
			Tools:    toolDefs,
		})
		if err != nil {
			return Message{}, apperr.Wrap(err, apperr.CodeUpstream, "assistant request failed")
		}

		if len(resp.ToolCalls) == 0 {
			reply = resp.Content
			break
		}
		if round == maxToolRounds {
			a.log.Warn("tool round limit reached", map[string]interface{}{
				"user_id": userID.String(),
			})
			reply = resp.Content
			break
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, tc := range resp.ToolCalls {
			a.log.Info("executing tool", map[string]interface{}{
				"tool":    tc.Name,
				"user_id": userID.String(),
			})
			result := a.registry.Execute(ctx, tc.Name, tc.Args)
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: tc.ID,
				ToolName:   tc.Name,
			})
		}
	}

	if _, err := a.history.Append(userID, "user", text); err != nil {
		return Message{}, err
	}
	saved, err := a.history.Append(userID, "assistant", reply)
	if err != nil {
		return Message{}, err
	}
	return saved, nil
}

// History returns the newest limit turns for the user.
func (a *Assistant) History(userID uuid.UUID, limit int) ([]Message, error) {
	return a.history.Recent(userID, limit)
}

// ClearHistory drops the user's transcript.
func (a *Assistant) ClearHistory(userID uuid.UUID) error {
	return a.history.Clear(userID)
}
