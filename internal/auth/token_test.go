package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestTokenManager_IssueParse(t *testing.T) {
	m := NewTokenManager(testKey, 24*time.Hour, nil)

	tok, err := m.Issue(42, "alice", 1)
	require.NoError(t, err)

	claims, err := m.Parse(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, 1, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager(testKey, time.Hour, nil)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := m.Issue(1, "alice", 0)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongKey(t *testing.T) {
	tok, err := NewTokenManager(testKey, time.Hour, nil).Issue(1, "alice", 1)
	require.NoError(t, err)

	other := NewTokenManager("fedcba9876543210fedcba9876543210", time.Hour, nil)
	_, err = other.Parse(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsNoneAlg(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		Role:   1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager(testKey, time.Hour, nil).Parse(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	m := NewTokenManager(testKey, time.Hour, nil)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := m.Parse(context.Background(), tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestTokenManager_Revoke(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRevocationStore()
	m := NewTokenManager(testKey, time.Hour, store)

	tok, err := m.Issue(7, "bob", 0)
	require.NoError(t, err)
	claims, err := m.Parse(ctx, tok)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims))

	_, err = m.Parse(ctx, tok)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	other, err := m.Issue(7, "bob", 0)
	require.NoError(t, err)
	_, err = m.Parse(ctx, other)
	assert.NoError(t, err, "revoking one token must not affect another")
}
