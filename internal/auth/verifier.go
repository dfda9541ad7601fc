// Package auth provides bearer-token verification and the authorization
// middleware for the note API.
//
// TOKEN FLOW:
//  1. The client obtains a bearer token from the identity provider out of
//     band (the mobile app signs in; cmd/tokengen mints tokens for local
//     development).
//  2. Every authenticated API call carries "Authorization: Bearer <token>".
//  3. The Authenticate middleware verifies the token once per request and
//     binds the resulting user id to the request context; handlers pass that
//     id explicitly into the service layer.
//
// The server never issues tokens to end users and never stores credentials —
// verification is its entire contract with the identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier is the contract consumed by the authorization middleware: given
// an opaque bearer token, return the verified user id or an error.
//
// The production identity provider sits behind this interface. TokenService
// below is the local HS256 implementation; tests substitute their own.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// TokenService verifies (and, for development tooling, mints) HS256-signed
// bearer tokens. The same secret signs and verifies.
type TokenService struct {
	secret []byte
	issuer string
}

var _ Verifier = (*TokenService)(nil)

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: TOKEN_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: token secret must be at least 16 characters")
	}
	if issuer == "" {
		return nil, errors.New("auth: token issuer is required")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer}, nil
}

// claims is the token payload. The standard "sub" (Subject) claim carries
// the user id the token proves ownership of.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a bearer token for the given userID with a
// 15 minute lifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, 15*time.Minute)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by cmd/tokengen and tests.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and verifies a bearer token, returning the user id from the
// "sub" claim.
//
// Checks performed by the jwt library:
//   - signature is valid
//   - token is not expired (ExpiresAt is required and in the future)
//   - issuer matches ours
//   - signing method is HS256 (jwt.WithValidMethods pins the algorithm, so a
//     token claiming alg "none" is rejected)
//
// The ctx parameter exists for the Verifier contract; a remote verifier
// would use it for its network call. Local HS256 verification doesn't block.
func (s *TokenService) Verify(_ context.Context, tokenStr string) (string, error) {
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
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.New("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", errors.New("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}

	return c.Subject, nil
}
