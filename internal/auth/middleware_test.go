// ABOUTME: Tests for the HTTP authentication middleware and RequireAuth gate
// ABOUTME: Covers passthrough, fail-closed rejection, idempotency, and request ids

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesusers/mes-users/internal/store"
)

// middlewareFixture wires a service with one known user and returns a
// handler that records the identity it observed.
type middlewareFixture struct {
	svc      *Service
	user     *store.User
	token    string
	observed *Identity
	called   bool
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()

	user := &store.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: hashFor(t, "Correct1!")}
	svc, _ := newTestService(t, user)

	session, err := svc.Login(context.Background(), "alice@example.com", "Correct1!")
	require.NoError(t, err)

	return &middlewareFixture{svc: svc, user: user, token: session.Token}
}

func (f *middlewareFixture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.called = true
		f.observed = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func (f *middlewareFixture) do(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	Authenticate(f.svc)(f.handler()).ServeHTTP(rec, req)
	return rec
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) failureBody {
	t.Helper()
	var body failureBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthenticate_NoHeaderPassesThrough(t *testing.T) {
	f := newMiddlewareFixture(t)

	rec := f.do(t, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.called)
	assert.Nil(t, f.observed, "request must reach the handler unauthenticated")
}

func TestAuthenticate_NonBearerHeaderPassesThrough(t *testing.T) {
	f := newMiddlewareFixture(t)

	// Not a bearer credential at all; treated as absent, not malformed
	rec := f.do(t, "garbage-without-bearer-prefix")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.called)
	assert.Nil(t, f.observed)
}

func TestAuthenticate_LowercaseSchemePassesThrough(t *testing.T) {
	f := newMiddlewareFixture(t)

	rec := f.do(t, "bearer "+f.token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, f.observed)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	f := newMiddlewareFixture(t)

	rec := f.do(t, "Bearer "+f.token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.observed)
	assert.Equal(t, f.user.ID, f.observed.User.ID)
	assert.Equal(t, "USER", f.observed.Roles)
}

func TestAuthenticate_TamperedTokenRejected(t *testing.T) {
	f := newMiddlewareFixture(t)

	tampered := f.token[:len(f.token)-2] + flipChar(f.token[len(f.token)-2:])
	rec := f.do(t, "Bearer "+tampered)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, f.called, "handler must never run on a bad token")

	body := decodeFailure(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
	assert.Equal(t, "malformed token", body.Message)
}

func TestAuthenticate_ExpiredTokenRejected(t *testing.T) {
	user := &store.User{ID: 1, Email: "alice@example.com", PasswordHash: "x"}
	lookup := &fakeUserLookup{users: map[string]*store.User{user.Email: user}}

	// Issue with a tiny TTL, then wait it out
	codec, err := NewJWTCodec(testSecret, time.Millisecond)
	require.NoError(t, err)
	token, err := codec.Issue(user)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond) // exp has one-second granularity

	svc := NewService(lookup, codec)

	f := &middlewareFixture{svc: svc}
	rec := f.do(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token expired", decodeFailure(t, rec).Message)
	assert.False(t, f.called)
}

func TestAuthenticate_DeletedUserRejected(t *testing.T) {
	f := newMiddlewareFixture(t)

	// Valid token, but the account is gone
	lookup := f.svc.users.(*fakeUserLookup)
	delete(lookup.users, f.user.Email)

	rec := f.do(t, "Bearer "+f.token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "user not found", decodeFailure(t, rec).Message)
	assert.False(t, f.called)
}

func TestAuthenticate_IdempotentWhenIdentityAttached(t *testing.T) {
	f := newMiddlewareFixture(t)

	existing := &Identity{User: &store.User{ID: 99, Email: "pre@example.com"}, Roles: "USER"}

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	req = req.WithContext(WithIdentity(req.Context(), existing))

	rec := httptest.NewRecorder()
	Authenticate(f.svc)(f.handler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.observed)
	assert.Equal(t, int64(99), f.observed.User.ID, "re-entry must not replace the attached identity")
}

func TestRequireAuth(t *testing.T) {
	called := false
	h := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "authentication required", decodeFailure(t, rec).Message)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{User: &store.User{ID: 1}, Roles: "USER"}))
	rec = httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
}
