// ABOUTME: Request-scoped identity propagation via context.Context
// ABOUTME: Provides WithIdentity/FromContext so handlers never touch global state

package auth

import (
	"context"

	"github.com/mesusers/mes-users/internal/store"
)

// Identity holds the authenticated principal for one request. It is created
// by the Authenticate middleware, read by handlers, and discarded when the
// request ends. It is never shared across requests or mutated after creation.
type Identity struct {
	User  *store.User // resolved account, never nil
	Roles string      // raw roles claim from the token
}

// identityKey is the key type for storing Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if the
// request is unauthenticated.
func FromContext(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if val == nil {
		return nil
	}
	id, ok := val.(*Identity)
	if !ok {
		return nil
	}
	return id
}

// MustFromContext retrieves the Identity from the context, panicking if not
// present. Only for handlers registered behind RequireAuth.
func MustFromContext(ctx context.Context) *Identity {
	id := FromContext(ctx)
	if id == nil {
		panic("auth: Identity not found in context")
	}
	return id
}
