// ABOUTME: Ownership-or-admin authorization policy applied by every resource handler
// ABOUTME: A single rule decides self-access, admin override, and unowned resources

package auth

import "github.com/mesusers/mes-users/internal/store"

// CanAct decides whether actor may operate on a resource owned by ownerID.
// Allowed when the resource has no owner constraint (nil), when the actor owns
// it, or when the actor is an admin. Every mutating resource operation applies
// this same rule; handlers differ only in which field supplies ownerID.
func CanAct(actor *store.User, ownerID *int64) bool {
	if actor == nil {
		return false
	}
	if ownerID == nil {
		return true
	}
	if *ownerID == actor.ID {
		return true
	}
	return actor.Admin
}
