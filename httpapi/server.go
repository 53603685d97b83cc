// Package httpapi exposes the todo service over HTTP: registration and
// login, per-user task CRUD, search, and the chat assistant.
package httpapi

import (
	"net/http"
	"time"

	"github.com/avinashraj/todokit/auth"
	"github.com/avinashraj/todokit/chat"
	"github.com/avinashraj/todokit/config"
	"github.com/avinashraj/todokit/logging"
	"github.com/avinashraj/todokit/ratelimit"
	"github.com/avinashraj/todokit/user"
)

// Server holds the handler dependencies. Assistant may be nil when no
// LLM is configured; the chat routes then fail with an upstream error.
type Server struct {
	log            *logging.Logger
	auth           *auth.Authenticator
	users          *user.Store
	spaces         *Workspaces
	assistant      *chat.Assistant
	allowedOrigins []string
	loginLimit     *ratelimit.Limiter
	chatLimit      *ratelimit.Limiter
}

// NewServer wires the API together.
func NewServer(cfg config.Config, log *logging.Logger, authn *auth.Authenticator, users *user.Store, spaces *Workspaces, assistant *chat.Assistant) *Server {
	return &Server{
		log:            log.WithComponent("http"),
		auth:           authn,
		users:          users,
		spaces:         spaces,
		assistant:      assistant,
		allowedOrigins: cfg.Server.AllowedOrigins,
		loginLimit:     ratelimit.New(cfg.RateLimit.LoginPerMinute, time.Minute),
		chatLimit:      ratelimit.New(cfg.RateLimit.ChatPerMinute, time.Minute),
	}
}

// Handler builds the route table wrapped in recovery, CORS and access
// logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.withLoginLimit(s.handleRegister))
	mux.HandleFunc("POST /auth/login", s.withLoginLimit(s.handleLogin))

	mux.HandleFunc("POST /api/tasks", s.requireAuth(s.handleCreateTask))
	mux.HandleFunc("GET /api/tasks", s.requireAuth(s.handleListTasks))
	mux.HandleFunc("GET /api/tasks/search", s.requireAuth(s.handleSearchTasks))
	mux.HandleFunc("GET /api/tasks/{id}", s.requireAuth(s.handleGetTask))
	mux.HandleFunc("PUT /api/tasks/{id}", s.requireAuth(s.handleUpdateTask))
	mux.HandleFunc("PATCH /api/tasks/{id}/toggle", s.requireAuth(s.handleToggleTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.requireAuth(s.handleDeleteTask))

	mux.HandleFunc("POST /api/chat", s.requireAuth(s.withChatLimit(s.handleChat)))
	mux.HandleFunc("GET /api/chat/history", s.requireAuth(s.handleChatHistory))
	mux.HandleFunc("DELETE /api/chat/history", s.requireAuth(s.handleClearChat))

	return s.withRecovery(s.withCORS(s.withLogging(mux)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
