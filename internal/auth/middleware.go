package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// AccessTokenCookie is the cookie browsers send the access token in. The
// Authorization header takes precedence when both are present.
const AccessTokenCookie = "accessToken"

// Identity is the authenticated caller, resolved once per request by the
// middleware and carried on the request context.
type Identity struct {
	UserID   string
	UserName string
}

type identityCtxKey struct{}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// FromContext returns the caller identity, if the request was authenticated.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}

// Middleware returns a handler wrapper that requires a valid access token,
// from the Authorization bearer header or the accessToken cookie, and puts
// the caller identity on the request context.
func (m *TokenManager) Middleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				unauthorized(w, logger, ErrMissingToken)
				return
			}

			claims, err := m.VerifyAccessToken(tokenString)
			if err != nil {
				unauthorized(w, logger, err)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID:   claims.UserID,
				UserName: claims.UserName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the access token from the request.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
		return strings.TrimSpace(header)
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, logger zerolog.Logger, err error) {
	logger.Debug().Err(err).Msg("request rejected")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": http.StatusUnauthorized,
		"message":    "unauthorized request",
		"success":    false,
		"errors":     []string{},
	})
}
