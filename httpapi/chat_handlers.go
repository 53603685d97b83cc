package httpapi

import (
	"net/http"
	"strconv"

	"github.com/avinashraj/todokit/auth"
	"github.com/avinashraj/todokit/chat"
	apperr "github.com/avinashraj/todokit/errors"
)

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		s.writeError(w, apperr.New(apperr.CodeUpstream, "assistant is not configured"))
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	userID, _ := auth.UserFromContext(r.Context())
	reply, err := s.assistant.Send(r.Context(), userID, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, reply)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		s.writeError(w, apperr.New(apperr.CodeUpstream, "assistant is not configured"))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, apperr.New(apperr.CodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	userID, _ := auth.UserFromContext(r.Context())
	history, err := s.assistant.History(userID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if history == nil {
		history = []chat.Message{}
	}
	s.writeData(w, http.StatusOK, history)
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		s.writeError(w, apperr.New(apperr.CodeUpstream, "assistant is not configured"))
		return
	}

	userID, _ := auth.UserFromContext(r.Context())
	if err := s.assistant.ClearHistory(userID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
