// ABOUTME: Login, refresh, and introspect flows over the user store
// ABOUTME: Classifies failures as invalid credentials, unknown user, or token errors

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesusers/mes-users/internal/store"
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserLookup resolves accounts by email. Satisfied by store.Store.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
}

// Session describes a freshly issued token, in the shape the login and
// refresh endpoints return.
type Session struct {
	Token     string
	TokenType string
	ExpiresIn int64 // seconds
	UserID    int64
	IsAdmin   bool
}

// Service implements the authentication flows. It keeps no cross-request
// state; every call is independent.
type Service struct {
	users  UserLookup
	codec  TokenCodec
	logger *slog.Logger
}

// NewService creates an authentication service over the given user lookup
// and token codec.
func NewService(users UserLookup, codec TokenCodec) *Service {
	return &Service{
		users:  users,
		codec:  codec,
		logger: slog.Default().With("component", "auth"),
	}
}

// Codec exposes the service's token codec for middleware wiring.
func (s *Service) Codec() TokenCodec {
	return s.codec
}

// Login verifies credentials and issues a new session token.
// Returns ErrUserNotFound when no account has the email and
// ErrInvalidCredentials when the password doesn't match.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			compareDummy(password)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return session, nil
}

// Refresh validates a still-unexpired token and mints a brand-new one from
// the user's current state, so a since-changed admin flag is picked up.
// The old token is not invalidated; both remain valid until their own expiry.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*Session, error) {
	user, err := s.Introspect(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("token refreshed", "user_id", user.ID)
	return session, nil
}

// Introspect validates a token and resolves the account it names.
// Returns ErrUserNotFound when the token verified but the account no longer
// exists — a token can outlive the account it names.
func (s *Service) Introspect(ctx context.Context, rawToken string) (*store.User, error) {
	id, err := s.Authenticate(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	return id.User, nil
}

// Authenticate validates a token and builds the request identity: the
// resolved account plus the raw roles claim.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*Identity, error) {
	claims, err := s.codec.Validate(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	return &Identity{User: user, Roles: claims.Roles}, nil
}

// issueSession mints a token for the user and decodes it back so the session
// fields reflect exactly what the token claims.
func (s *Service) issueSession(user *store.User) (*Session, error) {
	token, err := s.codec.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	claims, err := s.codec.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("verifying issued token: %w", err)
	}

	return &Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.codec.TTL().Seconds()),
		UserID:    claims.UserID,
		IsAdmin:   claims.IsAdmin(),
	}, nil
}
