package httpapi

import (
	"net/http"
	"strings"

	"centralTodoPlanner/internal/auth"
	"centralTodoPlanner/models"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// handleSignup creates an account. Validation happens before any write; a
// duplicate username maps to 409 and leaves the users table unchanged.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	role := models.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		writeError(w, http.StatusBadRequest, "role must be 'user' or 'admin'")
		return
	}

	u, err := s.Users.Create(r.Context(), req.Username, auth.MakeHash(req.Password), role)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// handleLogin verifies credentials and issues a JWT. Unknown username and
// hash mismatch share one generic message so the response does not reveal
// which factor failed.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, err := s.Users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		respondErr(w, err)
		return
	}
	if u == nil || !auth.CheckHash(req.Password, u.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := auth.NewToken(s.Secret, u.Username, string(u.Role))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Role: string(u.Role)})
}
