// Package auth provides authentication and authorization for mes-users.
//
// # Session Tokens
//
// Users authenticate with email and password and receive an HS256-signed JWT
// carrying their email (sub), numeric user id, and role list. Tokens are
// signed with a single process-wide secret, live for a fixed TTL (24h by
// default), and are never stored server-side — validation is offline except
// for the one lookup that resolves the current account.
//
//	codec, err := auth.NewJWTCodec(secret, auth.DefaultTokenTTL)
//	svc := auth.NewService(store, codec)
//	session, err := svc.Login(ctx, email, password)
//
// Refreshing mints a brand-new token from the account's current state; the
// old token stays valid until its own expiry (there is no revocation list).
//
// # Failure Classification
//
// Every failure is a sentinel error, mapped to a 401 at the HTTP boundary:
//
//   - ErrInvalidCredentials: password doesn't match
//   - ErrUserNotFound: no account for the email or token subject
//   - ErrMalformedToken: bad encoding, bad signature, or missing claim
//   - ErrExpiredToken: verified but past its expiry
//
// # Middleware
//
// Authenticate wraps the whole mux. Requests without a bearer credential
// pass through unauthenticated; routes that need identity are wrapped in
// RequireAuth at registration time. A present-but-invalid token always fails
// closed with a 401 before the handler runs.
//
// Handlers read the identity from the request context:
//
//	id := auth.MustFromContext(r.Context())
//	if !auth.CanAct(id.User, &ownerID) { ... 403 ... }
//
// # Authorization
//
// CanAct implements the single ownership-or-admin rule used by every
// resource handler: self, admin, or an unowned resource.
package auth
