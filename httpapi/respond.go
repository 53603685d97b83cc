package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	apperr "github.com/avinashraj/todokit/errors"
	"github.com/avinashraj/todokit/task"
)

// envelope is the uniform response shape: data on success, error on
// failure, never both.
type envelope struct {
	Data  interface{}   `json:"data,omitempty"`
	Error *apperr.Error `json:"error,omitempty"`
}

func (s *Server) writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		s.log.Error("encode response", map[string]interface{}{"error": err.Error()})
	}
}

// writeError maps domain errors onto the error envelope. Uncoded
// errors stay server-side as INTERNAL.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	coded := s.toAPIError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(coded.Code().HTTPStatus())
	if encErr := json.NewEncoder(w).Encode(envelope{Error: coded}); encErr != nil {
		s.log.Error("encode error response", map[string]interface{}{"error": encErr.Error()})
	}
}

func (s *Server) toAPIError(err error) *apperr.Error {
	var notFound *task.NotFoundError
	if errors.As(err, &notFound) {
		return apperr.New(apperr.CodeNotFound, "task not found").
			WithDetail("task_id", notFound.ID.String())
	}

	var invalid *task.ValidationError
	if errors.As(err, &invalid) {
		return apperr.New(apperr.CodeInvalidInput, invalid.Error()).
			WithDetail("field", invalid.Field)
	}

	var coded *apperr.Error
	if errors.As(err, &coded) {
		return coded
	}

	s.log.Error("unhandled error", map[string]interface{}{"error": err.Error()})
	return apperr.New(apperr.CodeInternal, "internal server error")
}

// decodeJSON parses a request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(err, apperr.CodeInvalidInput, "invalid request body")
	}
	return nil
}
