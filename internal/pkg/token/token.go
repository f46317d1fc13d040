package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NewState generates an unguessable OAuth state token: 32 random bytes,
// base64url-encoded without padding.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
