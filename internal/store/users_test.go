// ABOUTME: Tests for user store operations
// ABOUTME: Covers CRUD, email normalization, conflicts, and pagination

package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(n int) *User {
	return &User{
		Username:     fmt.Sprintf("user_%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Admin:        false,
	}
}

func TestUserStore_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	err := s.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	retrieved, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, retrieved.Username)
	assert.Equal(t, user.Email, retrieved.Email)
	assert.Equal(t, user.PasswordHash, retrieved.PasswordHash)
	assert.False(t, retrieved.Admin)
}

func TestUserStore_EmailLowercased(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	user.Email = "Mixed.Case@Example.COM"
	require.NoError(t, s.CreateUser(ctx, user))
	assert.Equal(t, "mixed.case@example.com", user.Email)

	// Lookup is case-insensitive
	retrieved, err := s.GetUserByEmail(ctx, "MIXED.CASE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.ID)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser(1)))

	dup := testUser(2)
	dup.Email = "user1@example.com"
	err := s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserStore_DuplicateUsername(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser(1)))

	dup := testUser(2)
	dup.Username = "user_1"
	err := s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserStore_GetNotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_PartialUpdate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	require.NoError(t, s.CreateUser(ctx, user))

	newName := "renamed"
	updated, err := s.UpdateUser(ctx, user.ID, UserUpdate{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	// Untouched fields survive
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)

	admin := true
	updated, err = s.UpdateUser(ctx, user.ID, UserUpdate{Admin: &admin})
	require.NoError(t, err)
	assert.True(t, updated.Admin)
	assert.Equal(t, "renamed", updated.Username)
}

func TestUserStore_UpdateNotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	name := "ghost"
	_, err := s.UpdateUser(ctx, 999, UserUpdate{Username: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_EmptyUpdateReturnsUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	require.NoError(t, s.CreateUser(ctx, user))

	updated, err := s.UpdateUser(ctx, user.ID, UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, user.Username, updated.Username)
}

func TestUserStore_Delete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	require.NoError(t, s.CreateUser(ctx, user))

	deleted, err := s.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, deleted.Username)

	_, err = s.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.DeleteUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_DeleteCascadesAddresses(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	require.NoError(t, s.CreateUser(ctx, user))

	addr := &Address{UserID: user.ID, Cep: "01001000", Street: "Praça da Sé", Number: "1"}
	require.NoError(t, s.CreateAddress(ctx, addr))

	_, err := s.DeleteUser(ctx, user.ID)
	require.NoError(t, err)

	_, err = s.GetAddress(ctx, addr.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_Pagination(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.CreateUser(ctx, testUser(i)))
	}

	page1, err := s.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "user_1", page1[0].Username)

	page3, err := s.ListUsers(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "user_5", page3[0].Username)

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
