package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareBearerHeader(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueAccessToken("user-123", "alice")
	require.NoError(t, err)

	var got Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		require.True(t, ok)
		got = id
		w.WriteHeader(http.StatusOK)
	})

	handler := m.Middleware(zerolog.Nop())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Identity{UserID: "user-123", UserName: "alice"}, got)
}

func TestMiddlewareCookieFallback(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueAccessToken("user-123", "alice")
	require.NoError(t, err)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := m.Middleware(zerolog.Nop())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestMiddlewareRejections(t *testing.T) {
	m := newTestManager()

	expired := NewTokenManager(TokenManagerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     -time.Minute,
		RefreshTTL:    -time.Minute,
	})
	expiredToken, err := expired.IssueAccessToken("user-123", "alice")
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
	}{
		{
			name:    "no credentials",
			prepare: func(r *http.Request) {},
		},
		{
			name: "malformed token",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not-a-jwt")
			},
		},
		{
			name: "expired token",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+expiredToken)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			})
			handler := m.Middleware(zerolog.Nop())(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"statusCode":401,"message":"unauthorized request","success":false,"errors":[]}`, rec.Body.String())
		})
	}
}
