package httpapi

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	apperr "github.com/avinashraj/todokit/errors"
	"github.com/avinashraj/todokit/task"
)

// taskID parses the {id} path segment.
func taskID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, apperr.New(apperr.CodeInvalidInput, "task id must be a UUID")
	}
	return id, nil
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req task.Create
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	engine, err := s.spaces.Engine(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	created, err := engine.CreateTask(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, http.StatusCreated, created)
}

// listOptions reads the status, priority, tag and sort query
// parameters.
func listOptions(r *http.Request) (task.ListOptions, error) {
	var opts task.ListOptions

	switch status := r.URL.Query().Get("status"); status {
	case "":
	case "pending":
		f := false
		opts.Status = &f
	case "completed":
		t := true
		opts.Status = &t
	default:
		return opts, apperr.New(apperr.CodeInvalidInput, "status must be pending or completed")
	}

	if p := r.URL.Query().Get("priority"); p != "" {
		priority := task.Priority(p)
		if !priority.Valid() {
			return opts, apperr.New(apperr.CodeInvalidInput, "priority must be low, medium or high")
		}
		opts.Priority = priority
	}

	opts.Tag = r.URL.Query().Get("tag")

	switch sort := r.URL.Query().Get("sort"); sort {
	case "", task.SortAlpha, task.SortPriority:
		opts.SortBy = sort
	default:
		return opts, apperr.New(apperr.CodeInvalidInput, "sort must be alpha or priority")
	}

	return opts, nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	engine, err := s.spaces.Engine(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	tasks, err := engine.ListTasks(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	s.writeData(w, http.StatusOK, tasks)
}

// handleSearchTasks answers substring search by default. With
// mode=full and the index enabled it runs tokenized full-text search
// instead, ranked by relevance.
func (s *Server) handleSearchTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, apperr.New(apperr.CodeInvalidInput, "query parameter q is required"))
		return
	}

	ws, err := s.spaces.forContext(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("mode") == "full" {
		if ws.index == nil {
			s.writeError(w, apperr.New(apperr.CodeInvalidInput, "full-text search is disabled"))
			return
		}
		ids, err := ws.index.Search(query, 50)
		if err != nil {
			s.writeError(w, err)
			return
		}
		tasks := make([]task.Task, 0, len(ids))
		for _, id := range ids {
			t, err := ws.engine.GetTask(r.Context(), id)
			if err != nil {
				var notFound *task.NotFoundError
				if errors.As(err, &notFound) {
					continue
				}
				s.writeError(w, err)
				return
			}
			tasks = append(tasks, t)
		}
		s.writeData(w, http.StatusOK, tasks)
		return
	}

	tasks, err := ws.engine.SearchTasks(r.Context(), query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	s.writeData(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	engine, err := s.spaces.Engine(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	t, err := engine.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req task.Update
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	engine, err := s.spaces.Engine(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	updated, err := engine.UpdateTask(r.Context(), id, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, updated)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	engine, err := s.spaces.Engine(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	toggled, err := engine.ToggleTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, toggled)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	engine, err := s.spaces.Engine(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := engine.DeleteTask(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
