package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	UserID   string `json:"uid"`
	UserName string `json:"userName,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the access/refresh token pair. Access
// tokens are short-lived bearer credentials; refresh tokens are long-lived
// and single-use, stored hashed on the user record and rotated on every
// refresh.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// TokenManagerConfig holds token signing settings.
type TokenManagerConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(cfg TokenManagerConfig) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
	}
}

// AccessTTL returns the access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccessToken signs a short-lived access token for the user.
func (m *TokenManager) IssueAccessToken(userID, userName string) (string, error) {
	return m.sign(m.accessSecret, m.accessTTL, userID, userName)
}

// IssueRefreshToken signs a long-lived refresh token for the user.
func (m *TokenManager) IssueRefreshToken(userID string) (string, error) {
	return m.sign(m.refreshSecret, m.refreshTTL, userID, "")
}

func (m *TokenManager) sign(secret []byte, ttl time.Duration, userID, userName string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken verifies an access token and returns its claims.
func (m *TokenManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return verify(m.accessSecret, tokenString)
}

// VerifyRefreshToken verifies a refresh token and returns its claims.
func (m *TokenManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return verify(m.refreshSecret, tokenString)
}

func verify(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
