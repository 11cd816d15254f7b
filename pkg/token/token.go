// Package token provides session token generation and hashing.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// DefaultLength is the default token entropy in bytes.
const DefaultLength = 32

// Generate generates a cryptographically secure random token.
//
// The returned token is Base64 RawURL encoded for safe transport in
// headers and query strings.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength generates a token with the specified byte length.
func GenerateWithLength(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// Hash computes the SHA-256 hash of a token, hex encoded for storage.
// Outposts persist only hashes, never the token value itself.
func Hash(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// Verify verifies a token against an expected hash in constant time.
func Verify(token, expectedHash string) bool {
	actualHash := Hash(token)
	return subtle.ConstantTimeCompare([]byte(actualHash), []byte(expectedHash)) == 1
}
