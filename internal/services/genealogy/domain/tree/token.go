package tree

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// shareTokenLength is the character length of a generated share token.
const shareTokenLength = 32

// NewShareToken generates a URL-safe random share token.
func NewShareToken() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw)[:shareTokenLength], nil
}
