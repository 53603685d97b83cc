// Command todod runs the todo API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	bolt "go.etcd.io/bbolt"

	"github.com/avinashraj/todokit/auth"
	"github.com/avinashraj/todokit/chat"
	"github.com/avinashraj/todokit/config"
	"github.com/avinashraj/todokit/httpapi"
	"github.com/avinashraj/todokit/llm"
	"github.com/avinashraj/todokit/logging"
	"github.com/avinashraj/todokit/shutdown"
	"github.com/avinashraj/todokit/tools"
	"github.com/avinashraj/todokit/user"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "todod:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log := logging.New()
	log.SetLevel(logging.ParseLevel(cfg.Log.Level))
	log = log.WithComponent("todod")

	if cfg.Auth.Secret == "" {
		return errors.New("auth secret is required, set auth.secret or TODOKIT_AUTH_SECRET")
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := bolt.Open(cfg.BoltPath(), 0o600, nil)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	users, err := user.NewStore(db)
	if err != nil {
		return err
	}
	authn, err := auth.New(cfg.Auth.Secret, cfg.Auth.TokenTTL.Duration)
	if err != nil {
		return err
	}

	spaces := httpapi.NewWorkspaces(cfg)

	// The assistant is optional: without an API key the chat routes
	// answer with an upstream error and the rest of the API works.
	var assistant *chat.Assistant
	if cfg.LLM.APIKey != "" {
		provider, err := llm.NewProvider(llm.Config{
			Provider:  cfg.LLM.Provider,
			Model:     cfg.LLM.Model,
			APIKey:    cfg.LLM.APIKey,
			BaseURL:   cfg.LLM.BaseURL,
			MaxTokens: cfg.LLM.MaxTokens,
		})
		if err != nil {
			return err
		}
		history, err := chat.NewHistoryStore(db)
		if err != nil {
			return err
		}
		registry := tools.NewRegistry(spaces.Engine)
		assistant = chat.NewAssistant(provider, registry, history, log)
		log.Info("assistant enabled", map[string]interface{}{
			"provider": cfg.LLM.Provider,
			"model":    cfg.LLM.Model,
		})
	} else {
		log.Warn("assistant disabled, no llm api key configured")
	}

	api := httpapi.NewServer(cfg, log, authn, users, spaces, assistant)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.Handler(),
	}

	coord := shutdown.New(cfg.Server.ShutdownTimeout.Duration, func(r shutdown.Result) {
		fields := map[string]interface{}{
			"phase":    r.Phase,
			"duration": r.Duration.String(),
		}
		if r.Err != nil {
			fields["error"] = r.Err.Error()
			log.Error("shutdown handler failed: "+r.Name, fields)
			return
		}
		log.Info("shutdown handler done: "+r.Name, fields)
	})
	coord.Register("http-server", shutdown.PhaseServer, server.Shutdown)
	coord.Register("workspaces", shutdown.PhaseStorage, func(ctx context.Context) error {
		return spaces.Close()
	})
	coord.Register("database", shutdown.PhaseStorage, func(ctx context.Context) error {
		return db.Close()
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", map[string]interface{}{"addr": cfg.Server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	waitErr := make(chan error, 1)
	go func() { waitErr <- coord.Wait() }()

	select {
	case err := <-serveErr:
		coord.Shutdown()
		return err
	case err := <-waitErr:
		log.Info("shutdown complete")
		return err
	}
}
