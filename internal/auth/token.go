package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// tokenBytes gives 256 bits of entropy; collisions are treated as
// impossible and no uniqueness check is performed on insert.
const tokenBytes = 32

// NewSessionToken generates a cryptographically random opaque token.
// The value has no decodable structure; it is purely a lookup key.
func NewSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
