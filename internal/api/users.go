// ABOUTME: HTTP handlers for user signup, lookup, listing, update, and deletion
// ABOUTME: Updates and deletes enforce the ownership-or-admin policy

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mesusers/mes-users/internal/auth"
	"github.com/mesusers/mes-users/internal/store"
)

const defaultPageSize = 20

// createUserRequest is the signup request body. The admin flag is not
// accepted here; accounts are always created as regular users.
type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateUserRequest carries a partial profile update. Absent fields are
// left unchanged.
type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Admin    *bool   `json:"admin"`
}

// handleCreateUser registers a new account. Public: signup needs no token.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateUsername(req.Username); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := &store.User{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Admin:        false,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.logger.Info("user created", "user_id", user.ID)
	respondSuccess(w, "User created", newUserResponse(user))
}

// handleGetUser returns one user's public profile.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	respondSuccess(w, "User found", newUserResponse(user))
}

// handleListUsers returns one page of users. Requires authentication.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	users, err := s.store.ListUsers(r.Context(), page, pageSize)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	total, err := s.store.CountUsers(r.Context())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, newUserResponse(u))
	}

	respondSuccess(w, "Users listed", newPaginated(items, page, total, pageSize))
}

// handleUpdateUser applies a partial update to a user. Only the account owner
// or an admin may update, and only admins may change the admin flag.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	actor := auth.MustFromContext(r.Context()).User
	if !auth.CanAct(actor, &id) {
		respondForbidden(w)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Privilege escalation is admin-only, including self-promotion.
	if req.Admin != nil && !actor.Admin {
		respondForbidden(w)
		return
	}

	update := store.UserUpdate{Admin: req.Admin}
	if req.Username != nil {
		if err := validateUsername(*req.Username); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update.Username = req.Username
	}
	if req.Email != nil {
		if err := validateEmail(*req.Email); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		lowered := strings.ToLower(*req.Email)
		update.Email = &lowered
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.Error("hashing password", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		update.PasswordHash = &hash
	}

	user, err := s.store.UpdateUser(r.Context(), id, update)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.logger.Info("user updated", "user_id", id, "actor_id", actor.ID)
	respondSuccess(w, "User updated", newUserResponse(user))
}

// handleDeleteUser removes a user and, via the schema cascade, their
// addresses. Only the account owner or an admin may delete.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	actor := auth.MustFromContext(r.Context()).User
	if !auth.CanAct(actor, &id) {
		respondForbidden(w)
		return
	}

	user, err := s.store.DeleteUser(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.logger.Info("user deleted", "user_id", id, "actor_id", actor.ID)
	respondSuccess(w, "User deleted", newUserResponse(user))
}

// respondStoreError translates store errors into API envelopes.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrEmailExists):
		respondError(w, http.StatusConflict, "email already exists")
	case errors.Is(err, store.ErrUsernameExists):
		respondError(w, http.StatusConflict, "username already exists")
	default:
		s.logger.Error("store operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID parses the {id} path segment, responding 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// pageParams reads ?page= and ?pageSize= with 1-based defaults.
func pageParams(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}
	return page, pageSize
}
