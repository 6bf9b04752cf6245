package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/OSMA-D/osma-server/internal/model"
)

// ErrInvalidToken is returned by Verify for EVERY failure mode: malformed
// token, wrong signature, expired, unknown role. Callers must not be able to
// distinguish these cases — a more specific error would let an attacker
// probe which part of a forged token was rejected.
var ErrInvalidToken = errors.New("auth: invalid token")

// tokenLifetime is fixed at seven days from issuance. There is no refresh
// flow; clients sign in again when the token lapses.
const tokenLifetime = 7 * 24 * time.Hour

// TokenService mints and verifies the signed session claims that carry a
// user's identity between requests.
//
// Tokens are HS256 JWTs. The payload is {name, role, exp} — everything a
// request needs to resolve its identity without a database lookup. The same
// process-wide secret (JWT_SECRET) signs and verifies.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. Name and Role are custom claims; the expiry
// lives in the embedded RegisteredClaims.
type claims struct {
	Name string     `json:"name"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Mint creates and signs a session token for the given user.
// It fails only on signing-key misconfiguration.
func (s *TokenService) Mint(name string, role model.Role) (string, error) {
	return s.mintWithLifetime(name, role, tokenLifetime)
}

// mintWithLifetime lets tests issue already-expired or short-lived tokens.
func (s *TokenService) mintWithLifetime(name string, role model.Role, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses a token string and returns the identity it asserts.
//
// Checks performed: HS256 signature (with jwt.WithValidMethods to block
// algorithm-confusion tokens), expiry, and that the embedded role is one
// this server mints. Any failure returns ErrInvalidToken — see the note on
// that variable.
func (s *TokenService) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Name == "" || !c.Role.Valid() {
		return Identity{}, ErrInvalidToken
	}

	return Identity{Name: c.Name, Role: c.Role}, nil
}
