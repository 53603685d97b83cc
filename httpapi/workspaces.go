package httpapi

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/avinashraj/todokit/auth"
	"github.com/avinashraj/todokit/config"
	apperr "github.com/avinashraj/todokit/errors"
	"github.com/avinashraj/todokit/task"
)

// workspace is one user's task storage: the engine over a JSON-file
// repository, plus the optional full-text index.
type workspace struct {
	engine *task.Engine
	index  *task.Index
}

// Workspaces opens per-user workspaces lazily and caches them for the
// life of the process.
type Workspaces struct {
	mu     sync.Mutex
	cfg    config.Config
	byUser map[uuid.UUID]*workspace
}

// NewWorkspaces creates the cache.
func NewWorkspaces(cfg config.Config) *Workspaces {
	return &Workspaces{
		cfg:    cfg,
		byUser: make(map[uuid.UUID]*workspace),
	}
}

// get returns the user's workspace, opening it on first use.
func (w *Workspaces) get(ctx context.Context, userID uuid.UUID) (*workspace, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ws, ok := w.byUser[userID]; ok {
		return ws, nil
	}

	repo, err := task.NewJSONRepository(w.cfg.TasksPath(userID.String()))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "open task storage")
	}

	ws := &workspace{}
	if w.cfg.Search.Enabled {
		ix, err := task.NewIndex(w.cfg.IndexPath(userID.String()))
		if err != nil {
			return nil, apperr.Wrap(err, apperr.CodeInternal, "open task index")
		}
		indexed := task.NewIndexedRepository(repo, ix)
		if err := indexed.Reindex(ctx); err != nil {
			ix.Close()
			return nil, apperr.Wrap(err, apperr.CodeInternal, "rebuild task index")
		}
		ws.index = ix
		ws.engine = task.NewEngine(indexed)
	} else {
		ws.engine = task.NewEngine(repo)
	}

	w.byUser[userID] = ws
	return ws, nil
}

// forContext returns the workspace for the user carried by ctx.
func (w *Workspaces) forContext(ctx context.Context) (*workspace, error) {
	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, apperr.New(apperr.CodeUnauthorized, "no authenticated user")
	}
	return w.get(ctx, userID)
}

// Engine returns the task engine for the user carried by ctx. It is
// the resolver handed to the tool registry, so assistant tool calls
// and HTTP handlers share storage and index.
func (w *Workspaces) Engine(ctx context.Context) (*task.Engine, error) {
	ws, err := w.forContext(ctx)
	if err != nil {
		return nil, err
	}
	return ws.engine, nil
}

// Close releases every open workspace. The JSON repositories hold no
// file handles between calls, so only the indexes need closing.
func (w *Workspaces) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	for _, ws := range w.byUser {
		if ws.index != nil {
			if err := ws.index.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	w.byUser = make(map[uuid.UUID]*workspace)
	return firstErr
}
