// ABOUTME: Truth-table tests for the ownership-or-admin policy
// ABOUTME: Covers self access, admin override, unowned resources, and denial

package auth

import (
	"testing"

	"github.com/mesusers/mes-users/internal/store"
)

func TestCanAct(t *testing.T) {
	owner := int64(1)
	other := int64(2)

	regular := &store.User{ID: 1}
	admin := &store.User{ID: 2, Admin: true}

	tests := []struct {
		name    string
		actor   *store.User
		ownerID *int64
		want    bool
	}{
		{name: "owner on own resource", actor: regular, ownerID: &owner, want: true},
		{name: "non-owner denied", actor: regular, ownerID: &other, want: false},
		{name: "admin on any resource", actor: admin, ownerID: &owner, want: true},
		{name: "admin on own resource", actor: admin, ownerID: &other, want: true},
		{name: "unowned resource allows anyone", actor: regular, ownerID: nil, want: true},
		{name: "unowned resource allows admin", actor: admin, ownerID: nil, want: true},
		{name: "nil actor always denied", actor: nil, ownerID: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAct(tt.actor, tt.ownerID); got != tt.want {
				t.Errorf("CanAct() = %v, want %v", got, tt.want)
			}
		})
	}
}
