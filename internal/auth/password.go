package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashToken produces the digest under which refresh tokens are stored.
// Tokens exceed bcrypt's input limit and are already high-entropy, so a
// plain SHA-256 digest is sufficient.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenHashEqual compares a stored token digest against the digest of a
// presented token in constant time.
func TokenHashEqual(storedHash, token string) bool {
	candidate := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(candidate)) == 1
}
