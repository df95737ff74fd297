package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/tenant"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the token payload. Role and tenant_id are enough for every
// request to carry its principal explicitly; nothing else is looked up.
type Claims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue creates a signed token for the principal.
func (t *TokenIssuer) Issue(p tenant.Principal) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Role: string(p.Role),
	}
	if p.TenantID != nil {
		claims.TenantID = p.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer token back into a principal.
func (t *TokenIssuer) Verify(raw string) (tenant.Principal, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return tenant.Principal{}, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return tenant.Principal{}, ErrInvalidToken
	}

	role, ok := tenant.ParseRole(claims.Role)
	if !ok {
		return tenant.Principal{}, ErrInvalidToken
	}

	p := tenant.Principal{ID: id, Role: role}
	if claims.TenantID != "" {
		tid, err := uuid.Parse(claims.TenantID)
		if err != nil {
			return tenant.Principal{}, ErrInvalidToken
		}
		p.TenantID = &tid
	}

	return p, nil
}
