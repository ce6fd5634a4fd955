// ABOUTME: JWT token issuance and verification for session tokens
// ABOUTME: Uses HS256 signing with a process-wide symmetric secret

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mesusers/mes-users/internal/store"
)

// Token errors
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("token expired")
)

// DefaultTokenTTL is the validity window of an issued token.
const DefaultTokenTTL = 24 * time.Hour

// MinSecretLength is the minimum allowed HS256 secret size in bytes.
const MinSecretLength = 32

// Role constants embedded in the roles claim. Every token carries RoleUser;
// admin tokens carry both.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Claims is the verified payload of a session token.
type Claims struct {
	Subject   string // user email
	UserID    int64
	Roles     string // "ADMIN,USER" or "USER"
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsAdmin reports whether the roles claim contains the admin role.
func (c *Claims) IsAdmin() bool {
	for _, role := range strings.Split(c.Roles, ",") {
		if role == RoleAdmin {
			return true
		}
	}
	return false
}

// TokenCodec issues and validates signed session tokens.
type TokenCodec interface {
	Issue(user *store.User) (string, error)
	Validate(raw string) (*Claims, error)
	TTL() time.Duration
}

// JWTCodec implements TokenCodec using HS256 signed JWTs.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTCodec creates a codec with the given secret and token lifetime.
// A non-positive ttl falls back to DefaultTokenTTL.
func NewJWTCodec(secret []byte, ttl time.Duration) (*JWTCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTCodec{secret: secret, ttl: ttl}, nil
}

// TTL returns the lifetime applied to issued tokens.
func (c *JWTCodec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a new signed token for the given user. The claim set carries
// the email as subject, the numeric user id, and the role list.
func (c *JWTCodec) Issue(user *store.User) (string, error) {
	roles := RoleUser
	if user.Admin {
		roles = RoleAdmin + "," + RoleUser
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    user.Email,
		"userId": user.ID,
		"roles":  roles,
		"iat":    now.Unix(),
		"exp":    now.Add(c.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Validate verifies the signature and expiry of a raw token and extracts its
// claims. A single leading "Bearer " scheme prefix is stripped (case-sensitive
// match, as sent in Authorization headers). Classification:
//
//   - empty input after stripping, bad encoding, bad signature, or a missing
//     claim → ErrMalformedToken
//   - verified but past its expiry → ErrExpiredToken
func (c *JWTCodec) Validate(raw string) (*Claims, error) {
	raw = strings.TrimPrefix(raw, "Bearer ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMalformedToken
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})

	if err != nil {
		// Expiry is only meaningful once the signature checked out
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if !token.Valid {
		return nil, ErrMalformedToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	return claimsFromMap(mapClaims)
}

// claimsFromMap converts verified JWT map claims into a Claims struct.
// Any missing or mistyped claim makes the token malformed.
func claimsFromMap(m jwt.MapClaims) (*Claims, error) {
	sub, ok := m["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMalformedToken)
	}

	// JSON numbers decode as float64
	userID, ok := m["userId"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing userId claim", ErrMalformedToken)
	}

	roles, ok := m["roles"].(string)
	if !ok || roles == "" {
		return nil, fmt.Errorf("%w: missing roles claim", ErrMalformedToken)
	}

	claims := &Claims{
		Subject: sub,
		UserID:  int64(userID),
		Roles:   roles,
	}

	if iat, ok := m["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := m["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, nil
}
