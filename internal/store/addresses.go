// ABOUTME: Address entity store methods for the addresses table
// ABOUTME: Covers create, lookup, partial update, delete, and pagination

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const addressColumns = `id, user_id, cep, street, number, complement, neighborhood, city, state, created_at, updated_at`

// scanAddress scans a single address row. The caller supplies the row's Scan.
func scanAddress(scan func(dest ...any) error) (*Address, error) {
	var addr Address
	var createdAtStr, updatedAtStr string

	err := scan(
		&addr.ID,
		&addr.UserID,
		&addr.Cep,
		&addr.Street,
		&addr.Number,
		&addr.Complement,
		&addr.Neighborhood,
		&addr.City,
		&addr.State,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	addr.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	addr.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &addr, nil
}

// CreateAddress inserts a new address for an existing user.
// Returns ErrNotFound if the owning user doesn't exist.
// On success the generated ID and timestamps are written back into addr.
func (s *SQLiteStore) CreateAddress(ctx context.Context, addr *Address) error {
	// The foreign key reports a generic constraint failure; check the owner
	// first so callers get ErrNotFound.
	if _, err := s.GetUser(ctx, addr.UserID); err != nil {
		return err
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO addresses (user_id, cep, street, number, complement, neighborhood, city, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		addr.UserID,
		addr.Cep,
		addr.Street,
		addr.Number,
		addr.Complement,
		addr.Neighborhood,
		addr.City,
		addr.State,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting address: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading address id: %w", err)
	}

	addr.ID = id
	addr.CreatedAt = now
	addr.UpdatedAt = now

	s.logger.Debug("created address", "id", addr.ID, "user_id", addr.UserID)
	return nil
}

// GetAddress retrieves an address by ID.
// Returns ErrNotFound if the address doesn't exist.
func (s *SQLiteStore) GetAddress(ctx context.Context, id int64) (*Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = ?`

	addr, err := scanAddress(s.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying address: %w", err)
	}

	return addr, nil
}

// UpdateAddress applies a partial update and returns the updated address.
// Returns ErrNotFound if the address (or a new owning user) doesn't exist.
func (s *SQLiteStore) UpdateAddress(ctx context.Context, id int64, update AddressUpdate) (*Address, error) {
	var sets []string
	var args []any

	if update.UserID != nil {
		if _, err := s.GetUser(ctx, *update.UserID); err != nil {
			return nil, err
		}
		sets = append(sets, "user_id = ?")
		args = append(args, *update.UserID)
	}
	if update.Cep != nil {
		sets = append(sets, "cep = ?")
		args = append(args, *update.Cep)
	}
	if update.Street != nil {
		sets = append(sets, "street = ?")
		args = append(args, *update.Street)
	}
	if update.Number != nil {
		sets = append(sets, "number = ?")
		args = append(args, *update.Number)
	}
	if update.Complement != nil {
		sets = append(sets, "complement = ?")
		args = append(args, *update.Complement)
	}
	if update.Neighborhood != nil {
		sets = append(sets, "neighborhood = ?")
		args = append(args, *update.Neighborhood)
	}
	if update.City != nil {
		sets = append(sets, "city = ?")
		args = append(args, *update.City)
	}
	if update.State != nil {
		sets = append(sets, "state = ?")
		args = append(args, *update.State)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, time.Now().UTC().Format(time.RFC3339))
		args = append(args, id)

		query := "UPDATE addresses SET " + strings.Join(sets, ", ") + " WHERE id = ?"

		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("updating address: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("checking update result: %w", err)
		}
		if rows == 0 {
			return nil, ErrNotFound
		}

		s.logger.Debug("updated address", "id", id)
	}

	return s.GetAddress(ctx, id)
}

// DeleteAddress removes an address and returns it, or ErrNotFound.
func (s *SQLiteStore) DeleteAddress(ctx context.Context, id int64) (*Address, error) {
	addr, err := s.GetAddress(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting address: %w", err)
	}

	s.logger.Debug("deleted address", "id", id)
	return addr, nil
}

// ListAddresses returns one page of addresses ordered by ID. Pages are 1-based.
func (s *SQLiteStore) ListAddresses(ctx context.Context, page, pageSize int) ([]*Address, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	query := `SELECT ` + addressColumns + ` FROM addresses ORDER BY id LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}
	defer rows.Close()

	var addrs []*Address
	for rows.Next() {
		addr, err := scanAddress(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning address: %w", err)
		}
		addrs = append(addrs, addr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating addresses: %w", err)
	}

	return addrs, nil
}

// CountAddresses returns the total number of addresses.
func (s *SQLiteStore) CountAddresses(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM addresses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting addresses: %w", err)
	}
	return count, nil
}
