// Package api implements the mes-users HTTP API.
//
// # Overview
//
// The API serves user accounts, their postal addresses, and the
// authentication endpoints that issue and validate bearer tokens. Every
// response uses a uniform envelope:
//
//	{"success": true, "statusCode": 200, "message": "...", "data": {...}}
//
// # Routes
//
// Authentication:
//
//	POST /api/auth/login     - exchange credentials for a token
//	POST /api/auth/validate  - introspect the presented token
//	POST /api/auth/refresh   - mint a new token from a valid one
//
// Users (signup and profile lookup are public):
//
//	POST   /api/users        - register an account
//	GET    /api/users/{id}   - public profile
//	GET    /api/users        - paginated listing (auth required)
//	PUT    /api/users/{id}   - update (owner or admin)
//	DELETE /api/users/{id}   - delete (owner or admin)
//
// Addresses (all routes require auth; writes are owner-or-admin):
//
//	POST   /api/addresses
//	GET    /api/addresses/{id}
//	GET    /api/addresses
//	PUT    /api/addresses/{id}
//	DELETE /api/addresses/{id}
//
// # Middleware
//
// Requests flow through RequestID and then bearer-token authentication.
// A missing or non-bearer Authorization header passes through
// unauthenticated; a present-but-invalid token fails closed with 401.
package api
