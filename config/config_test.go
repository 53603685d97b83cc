package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Auth.TokenTTL.Duration != 7*24*time.Hour {
		t.Errorf("expected 7d token ttl, got %s", cfg.Auth.TokenTTL.Duration)
	}
	if !cfg.Search.Enabled {
		t.Error("expected search enabled by default")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9090"
shutdown_timeout = "5s"

[storage]
data_dir = "/var/lib/todokit"

[llm]
provider = "groq"
model = "llama-3.3-70b-versatile"
base_url = "https://api.groq.com/openai/v1"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout.Duration != 5*time.Second {
		t.Errorf("expected 5s shutdown timeout, got %s", cfg.Server.ShutdownTimeout.Duration)
	}
	if cfg.LLM.Provider != "groq" {
		t.Errorf("expected groq, got %s", cfg.LLM.Provider)
	}
	// Untouched sections keep defaults.
	if cfg.LLM.MaxTokens != 1024 {
		t.Errorf("expected default max_tokens, got %d", cfg.LLM.MaxTokens)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TODOKIT_AUTH_SECRET", "from-env")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[auth]
secret = "from-file"

[llm]
provider = "groq"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.Secret != "from-env" {
		t.Errorf("env must override the file secret, got %q", cfg.Auth.Secret)
	}
	if cfg.LLM.APIKey != "gsk-test" {
		t.Errorf("expected provider key from env, got %q", cfg.LLM.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty addr")
	}

	cfg = Default()
	cfg.Storage.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty data dir")
	}
}

func TestStoragePaths(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = "/srv/todo"

	if got := cfg.TasksPath("u1"); got != filepath.Join("/srv/todo", "tasks", "u1.json") {
		t.Errorf("unexpected tasks path %s", got)
	}
	if got := cfg.BoltPath(); got != filepath.Join("/srv/todo", "todokit.db") {
		t.Errorf("unexpected bolt path %s", got)
	}
}
