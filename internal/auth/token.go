// Package auth issues and verifies the bearer tokens guarding administrative
// endpoints. Tokens are self-contained HMAC-signed claims; the server keeps
// no session state and expiry is the only invalidation mechanism.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/intakehq/intake/internal/core"
)

// Verification failures. Handlers treat all of them as unauthenticated; the
// split exists for logging and tests.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenSignature = errors.New("token signature mismatch")
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenClaims    = errors.New("token claims are invalid")
)

// Claims is the identity payload embedded in an issued token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Subject returns the opaque client identifier the token was issued for.
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// TokenService signs and verifies identity tokens. The signing secret comes
// from configuration and must never be logged.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// DefaultTTL bounds token lifetime when configuration does not override it.
const DefaultTTL = 24 * time.Hour

// NewTokenService builds a token service. An empty secret is rejected at
// construction so a misconfigured deployment fails fast instead of signing
// with a guessable key.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock overrides the service clock. Intended for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue produces a signed token for subject with the given role.
func (s *TokenService) Issue(subject string, role core.Role) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a raw token, returning its claims. A failure is
// one of the typed errors above, never a panic or a silently-empty result.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	default:
		return nil, ErrTokenClaims
	}

	if !token.Valid {
		return nil, ErrTokenClaims
	}
	if _, ok := core.ParseRole(claims.Role); !ok {
		return nil, ErrTokenClaims
	}
	if claims.Subject() == "" {
		return nil, ErrTokenClaims
	}

	return claims, nil
}

// TTL reports the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
