package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager(TokenManagerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "cliptube-test",
	})
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	access, err := m.IssueAccessToken("user-123", "alice")
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice", claims.UserName)
	assert.Equal(t, "cliptube-test", claims.Issuer)

	refresh, err := m.IssueRefreshToken("user-123")
	require.NoError(t, err)

	refreshClaims, err := m.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", refreshClaims.UserID)
	assert.Empty(t, refreshClaims.UserName)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	m := newTestManager()

	access, err := m.IssueAccessToken("user-123", "alice")
	require.NoError(t, err)

	refresh, err := m.IssueRefreshToken("user-123")
	require.NoError(t, err)

	_, err = m.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager(TokenManagerConfig{
		AccessSecret:  "different-secret",
		RefreshSecret: "different-refresh",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	})

	access, err := m.IssueAccessToken("user-123", "alice")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	m := NewTokenManager(TokenManagerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     -time.Minute,
		RefreshTTL:    -time.Minute,
	})

	access, err := m.IssueAccessToken("user-123", "alice")
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbageRejected(t *testing.T) {
	m := newTestManager()

	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.VerifyAccessToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenString)
	}
}
