// ABOUTME: HTTP handlers for login, token validation, and token refresh
// ABOUTME: Maps auth service failures onto 401 envelopes

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mesusers/mes-users/internal/auth"
	"github.com/mesusers/mes-users/internal/store"
)

// loginRequest is the JSON request body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is the JSON payload for login and refresh.
type sessionResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
	UserID    int64  `json:"userId"`
	IsAdmin   bool   `json:"isAdmin"`
}

// userResponse is the public profile shape. The password hash never leaves
// the server.
type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Admin    bool   `json:"admin"`
}

func newUserResponse(u *store.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Admin:    u.Admin,
	}
}

func newSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		TokenType: s.TokenType,
		ExpiresIn: s.ExpiresIn,
		UserID:    s.UserID,
		IsAdmin:   s.IsAdmin,
	}
}

// authFailureMessage maps authentication errors to user-facing messages.
func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, auth.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, auth.ErrExpiredToken):
		return "token expired"
	default:
		return "malformed token"
	}
}

// handleLogin authenticates credentials and issues a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, authFailureMessage(err))
			return
		}
		s.logger.Error("login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondSuccess(w, "Login successful", newSessionResponse(session))
}

// handleValidate introspects the presented token and returns the caller's
// public profile.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Introspect(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		respondError(w, http.StatusUnauthorized, authFailureMessage(err))
		return
	}

	respondSuccess(w, "Token is valid", newUserResponse(user))
}

// handleRefresh mints a new token from the presented, still-valid one.
// The old token is not invalidated and expires on its own schedule.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	session, err := s.auth.Refresh(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		respondError(w, http.StatusUnauthorized, authFailureMessage(err))
		return
	}

	respondSuccess(w, "Token refreshed", newSessionResponse(session))
}
