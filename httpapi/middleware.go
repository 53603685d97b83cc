package httpapi

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avinashraj/todokit/auth"
	apperr "github.com/avinashraj/todokit/errors"
)

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs every request with method, path, status and
// duration under a per-request id.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.WithRequestID(uuid.NewString()).Request(r, rec.status, time.Since(start))
	})
}

// withRecovery turns panics into a 500 instead of killing the
// connection.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic recovered", map[string]interface{}{
					"panic": rec,
					"path":  r.URL.Path,
				})
				s.writeError(w, apperr.New(apperr.CodeInternal, "internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withCORS answers preflight requests and stamps the allowed origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// withLoginLimit throttles credential endpoints per client address to
// slow down password guessing.
func (s *Server) withLoginLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.loginLimit.Allow("login:" + clientAddr(r)) {
			s.writeError(w, apperr.New(apperr.CodeRateLimited, "too many attempts, try again later"))
			return
		}
		next(w, r)
	}
}

// withChatLimit throttles assistant messages per user. Runs after
// requireAuth so the user id is on the context.
func (s *Server) withChatLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserFromContext(r.Context())
		if ok && !s.chatLimit.Allow("chat:"+userID.String()) {
			s.writeError(w, apperr.New(apperr.CodeRateLimited, "message quota exceeded, try again later"))
			return
		}
		next(w, r)
	}
}

// clientAddr strips the port from the remote address.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requireAuth verifies the bearer token and puts the user id on the
// request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, apperr.New(apperr.CodeUnauthorized, "missing bearer token"))
			return
		}

		userID, err := s.auth.VerifyToken(token)
		if err != nil {
			s.writeError(w, err)
			return
		}

		next(w, r.WithContext(auth.ContextWithUser(r.Context(), userID)))
	}
}
