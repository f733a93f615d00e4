package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// ErrMissingSecret is returned by NewJWTIssuer when no signing key is
// configured. This is a startup precondition, not a per-request error.
var ErrMissingSecret = errors.New("jwt signing secret is not configured")

// JWTIssuer implements ports.TokenIssuer with HS256-signed JWTs. The signing
// key and TTL are fixed at construction and never mutated.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTIssuer validates the signing key up front and returns an issuer.
// A non-positive ttl falls back to defaultTokenTTL.
func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints a token asserting that email authenticated with the given
// role. The issuer trusts the caller to have verified the credential.
func (i *JWTIssuer) Issue(email string, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
