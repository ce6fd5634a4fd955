// ABOUTME: HTTP middleware for bearer-token authentication and request ids
// ABOUTME: Attaches the request identity to context or fails closed with a 401 envelope

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// bearerPrefix is the Authorization scheme literal. The match is
// case-sensitive: a header without this exact prefix is not a bearer
// credential and the request passes through unauthenticated.
const bearerPrefix = "Bearer "

// requestIDKey is the context key for the per-request id.
type requestIDKey struct{}

// RequestIDFromContext returns the request id, or "" if none is attached.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// failureBody is the fixed envelope written on authentication failures.
type failureBody struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func writeAuthFailure(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(failureBody{
		Success:    false,
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	})
}

// failureMessage maps an authentication error to its user-facing message.
// Unexpected internal errors read as a malformed token: the middleware fails
// closed rather than letting a half-authenticated request through.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrExpiredToken):
		return "token expired"
	case errors.Is(err, ErrUserNotFound):
		return "user not found"
	default:
		return "malformed token"
	}
}

// Authenticate creates an HTTP middleware that authenticates bearer tokens.
//
// Requests without an Authorization header, or with one that doesn't use the
// bearer scheme, pass through unauthenticated — many routes are public, and
// handlers that need identity declare it with RequireAuth. When a bearer
// token is present it must be valid: any failure short-circuits the chain
// with a 401 and the handler is never invoked. Re-entering with an identity
// already attached is a no-op.
func Authenticate(svc *Service) func(http.Handler) http.Handler {
	logger := slog.Default().With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			if FromContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			id, err := svc.Authenticate(r.Context(), header)
			if err != nil {
				logger.Warn("authentication failed",
					"error", err,
					"request_id", RequestIDFromContext(r.Context()),
				)
				// Drop any partially-built context before rejecting
				writeAuthFailure(w, failureMessage(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth declares that a route needs an authenticated identity.
// Registered around individual handlers, after Authenticate has run.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			writeAuthFailure(w, "authentication required")
			return
		}
		next(w, r)
	}
}

// RequestID creates an HTTP middleware that tags every request with a uuid,
// echoed in the X-Request-Id response header and available to loggers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
