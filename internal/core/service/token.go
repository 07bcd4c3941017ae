package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

// DefaultTokenTTL is used when no positive TTL is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenManager issues and verifies HS256 session tokens carrying only the
// account id. Tokens are never revoked server-side; expiry is the only
// invalidation.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime of every issued token.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for accountID and returns it with its expiry.
func (m *TokenManager) Issue(accountID string) (string, time.Time, error) {
	if accountID == "" {
		return "", time.Time{}, errors.New("issue token: empty account id")
	}
	now := m.now().UTC().Truncate(time.Second)
	exp := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return signed, exp, nil
}

// Verify returns the account id asserted by token, or domain.ErrInvalidToken
// when the token is malformed, tampered with, signed with another algorithm,
// or expired.
func (m *TokenManager) Verify(token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
