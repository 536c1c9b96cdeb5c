// internal/auth/token.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token revoked")
)

const issuer = "game-catalog"

type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     int    `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	key     []byte
	ttl     time.Duration
	revoked RevocationStore
	now     func() time.Time
}

func NewTokenManager(key string, ttl time.Duration, revoked RevocationStore) *TokenManager {
	return &TokenManager{
		key:     []byte(key),
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue выпускает токен с id/username/role и сроком жизни ttl
func (m *TokenManager) Issue(userID int64, username string, role int) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись, срок и отзыв
func (m *TokenManager) Parse(ctx context.Context, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	if m.revoked != nil && claims.ID != "" {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("checking revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Revoke делает токен недействительным до его естественного истечения
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.revoked == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return m.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
