// ABOUTME: Tests for identity propagation through context.Context
// ABOUTME: Covers attach, retrieve, absence, and MustFromContext panic

package auth

import (
	"context"
	"testing"

	"github.com/mesusers/mes-users/internal/store"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	id := &Identity{User: &store.User{ID: 42, Email: "user@example.com"}, Roles: "USER"}

	ctx := WithIdentity(context.Background(), id)

	got := FromContext(ctx)
	if got == nil {
		t.Fatal("FromContext() = nil after WithIdentity")
	}
	if got.User.ID != 42 || got.Roles != "USER" {
		t.Errorf("FromContext() = %+v, want attached identity", got)
	}
}

func TestFromContext_Empty(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() = %v, want nil", got)
	}
}

func TestMustFromContext_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustFromContext() should panic without an identity")
		}
	}()
	MustFromContext(context.Background())
}
