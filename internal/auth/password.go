package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes = 16
	keyBytes  = 32
)

// HashPassword derives a PBKDF2-SHA256 hash of the password and returns it
// as "salt$hash" with both parts base64-encoded. Given the stored salt the
// derivation is deterministic, so verification is a byte-for-byte compare.
func HashPassword(password string, iterations int) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	if iterations <= 0 {
		iterations = 100_000
	}

	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha256.New)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" +
		base64.RawStdEncoding.EncodeToString(key), nil
}

// ComparePassword recomputes the hash of plain with the stored salt and
// compares it against the stored digest in constant time. A malformed
// stored value never matches.
func ComparePassword(stored, plain string, iterations int) bool {
	if stored == "" || plain == "" {
		return false
	}
	if iterations <= 0 {
		iterations = 100_000
	}

	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(plain), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
