// ABOUTME: User entity store methods for the users table
// ABOUTME: Covers create, lookup by id/email, partial update, delete, and pagination

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const userColumns = `id, username, email, password_hash, admin, created_at, updated_at`

// scanUser scans a single user row. The caller supplies the row's Scan.
func scanUser(scan func(dest ...any) error) (*User, error) {
	var user User
	var admin int
	var createdAtStr, updatedAtStr string

	err := scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&admin,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	user.Admin = admin != 0

	user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &user, nil
}

// classifyUserConflict maps a UNIQUE violation to the column that caused it
func classifyUserConflict(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "users.email") {
		return ErrEmailExists
	}
	if strings.Contains(msg, "users.username") {
		return ErrUsernameExists
	}
	return err
}

// CreateUser inserts a new user. The email is stored lowercased so lookups
// are case-insensitive. On success the generated ID and timestamps are
// written back into user.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	now := time.Now().UTC()

	query := `
		INSERT INTO users (username, email, password_hash, admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		user.Username,
		strings.ToLower(user.Email),
		user.PasswordHash,
		boolToInt(user.Admin),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return classifyUserConflict(err)
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}

	user.ID = id
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	s.logger.Debug("created user", "id", user.ID, "username", user.Username)
	return nil
}

// GetUser retrieves a user by ID.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
// Returns ErrNotFound if no user has the given email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	return user, nil
}

// UpdateUser applies a partial update and returns the updated user.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error) {
	var sets []string
	var args []any

	if update.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *update.Username)
	}
	if update.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strings.ToLower(*update.Email))
	}
	if update.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *update.PasswordHash)
	}
	if update.Admin != nil {
		sets = append(sets, "admin = ?")
		args = append(args, boolToInt(*update.Admin))
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, time.Now().UTC().Format(time.RFC3339))
		args = append(args, id)

		query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"

		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueConstraintError(err) {
				return nil, classifyUserConflict(err)
			}
			return nil, fmt.Errorf("updating user: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("checking update result: %w", err)
		}
		if rows == 0 {
			return nil, ErrNotFound
		}

		s.logger.Debug("updated user", "id", id)
	}

	return s.GetUser(ctx, id)
}

// DeleteUser removes a user and, via the foreign key cascade, all of the
// user's addresses. Returns the deleted user, or ErrNotFound.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Debug("deleted user", "id", id)
	return user, nil
}

// ListUsers returns one page of users ordered by ID. Pages are 1-based.
func (s *SQLiteStore) ListUsers(ctx context.Context, page, pageSize int) ([]*User, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

// CountUsers returns the total number of users.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
