// Package config loads server configuration from a TOML file with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Auth      AuthConfig      `toml:"auth"`
	LLM       LLMConfig       `toml:"llm"`
	Search    SearchConfig    `toml:"search"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
}

// StorageConfig locates the on-disk state. Task files live under
// DataDir, one JSON file per user; users and chat history share one
// bolt database file.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// AuthConfig configures token signing. Secret can be left empty in the
// file and supplied through TODOKIT_AUTH_SECRET.
type AuthConfig struct {
	Secret   string   `toml:"secret"`
	TokenTTL duration `toml:"token_ttl"`
}

// LLMConfig selects the assistant's model provider. APIKey can be left
// empty and supplied through the provider's conventional environment
// variable (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY,
// GROQ_API_KEY).
type LLMConfig struct {
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	MaxTokens int    `toml:"max_tokens"`
}

// SearchConfig controls the optional full-text index.
type SearchConfig struct {
	Enabled bool `toml:"enabled"`
}

// RateLimitConfig throttles credential guessing and assistant usage.
// Login attempts are counted per client address, chat messages per
// user. A zero value disables the corresponding limit.
type RateLimitConfig struct {
	LoginPerMinute int `toml:"login_per_minute"`
	ChatPerMinute  int `toml:"chat_per_minute"`
}

// LogConfig sets the console log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// duration lets TOML carry values like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: duration{10 * time.Second},
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
		Auth: AuthConfig{
			TokenTTL: duration{7 * 24 * time.Hour},
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			MaxTokens: 1024,
		},
		Search: SearchConfig{
			Enabled: true,
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: 10,
			ChatPerMinute:  20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path, layered over defaults, then applies
// environment overrides. An empty path loads defaults only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv fills secrets from the environment. Values from the file
// win only when the environment is unset.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TODOKIT_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = apiKeyFromEnv(cfg.LLM.Provider)
	}
}

// apiKeyFromEnv returns the conventional key variable for a provider.
func apiKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "google", "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "groq":
		return os.Getenv("GROQ_API_KEY")
	}
	return ""
}

// Validate checks the parts every deployment needs. LLM credentials
// are checked lazily when the assistant is actually enabled.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	if c.Auth.TokenTTL.Duration <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

// TasksPath returns the tasks file for one user.
func (c Config) TasksPath(userID string) string {
	return filepath.Join(c.Storage.DataDir, "tasks", userID+".json")
}

// BoltPath returns the shared bolt database file.
func (c Config) BoltPath() string {
	return filepath.Join(c.Storage.DataDir, "todokit.db")
}

// IndexPath returns the bleve index directory for one user.
func (c Config) IndexPath(userID string) string {
	return filepath.Join(c.Storage.DataDir, "index", userID+".bleve")
}
