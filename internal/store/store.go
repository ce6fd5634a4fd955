// ABOUTME: Store interface and data types for mes-users persistence
// ABOUTME: Defines User, Address structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating or updating a user with an email
// that another user already owns
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when creating or updating a user with a
// username that another user already owns
var ErrUsernameExists = errors.New("username already exists")

// User represents a user account. PasswordHash is a bcrypt hash and must
// never leave the server process.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate carries a partial user update. Nil fields are left unchanged.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Admin        *bool
}

// Address represents a postal address owned by a user
type Address struct {
	ID           int64
	UserID       int64
	Cep          string
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AddressUpdate carries a partial address update. Nil fields are left unchanged.
// Ownership transfers go through UserID.
type AddressUpdate struct {
	UserID       *int64
	Cep          *string
	Street       *string
	Number       *string
	Complement   *string
	Neighborhood *string
	City         *string
	State        *string
}

// Store defines the interface for user and address persistence
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]*User, error)
	CountUsers(ctx context.Context) (int, error)

	// Addresses (deleted along with their owning user)
	CreateAddress(ctx context.Context, addr *Address) error
	GetAddress(ctx context.Context, id int64) (*Address, error)
	UpdateAddress(ctx context.Context, id int64, update AddressUpdate) (*Address, error)
	DeleteAddress(ctx context.Context, id int64) (*Address, error)
	ListAddresses(ctx context.Context, page, pageSize int) ([]*Address, error)
	CountAddresses(ctx context.Context) (int, error)

	// Close releases any resources held by the store
	Close() error
}
