// Package store provides persistent storage for mes-users using SQLite.
//
// # Data Models
//
//   - User: Account with unique username and email, bcrypt password hash,
//     and an admin flag
//   - Address: Postal address owned by a user; deleted with its owner via
//     a foreign key cascade
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// The schema is created automatically when the store is opened. IDs are
// integer AUTOINCREMENT columns and emails are stored lowercased so lookups
// are case-insensitive.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrEmailExists: Another user already owns the email
//   - ErrUsernameExists: Another user already owns the username
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewSQLiteStore with a temp-dir path (or ":memory:") for integration
// tests with real SQLite.
package store
