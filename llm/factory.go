package llm

import (
	"fmt"
	"strings"
)

// groqBaseURL is Groq's OpenAI-compatible endpoint, used when no
// explicit base URL is configured.
const groqBaseURL = "https://api.groq.com/openai/v1"

// NewProvider creates the provider selected by cfg.
func NewProvider(cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)

	case "groq":
		// Groq speaks the OpenAI wire protocol.
		if cfg.BaseURL == "" {
			cfg.BaseURL = groqBaseURL
		}
		return NewOpenAIProvider(cfg)

	case "anthropic":
		return NewAnthropicProvider(cfg)

	case "google", "gemini":
		return NewGoogleProvider(cfg)

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// isRetryableError matches rate limits and transient server errors by
// message, which is the only shape shared across the three SDKs.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit", "too many requests", "429", "overloaded",
		"500", "502", "503", "504",
		"internal server error", "bad gateway", "service unavailable",
		"gateway timeout", "temporarily unavailable",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
