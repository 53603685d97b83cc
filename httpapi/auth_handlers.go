package httpapi

import (
	"net/http"
	"time"

	"github.com/avinashraj/todokit/user"
)

// userView is the public shape of an account.
type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func viewOf(u user.User) userView {
	return userView{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// sessionView is the register/login response: the account plus a
// bearer token.
type sessionView struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	u, err := s.users.Create(req.Email, req.Name, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.auth.IssueToken(u.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.log.Info("user registered", map[string]interface{}{"user_id": u.ID.String()})
	s.writeData(w, http.StatusCreated, sessionView{Token: token, User: viewOf(u)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	u, err := s.users.Authenticate(req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.auth.IssueToken(u.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, http.StatusOK, sessionView{Token: token, User: viewOf(u)})
}
