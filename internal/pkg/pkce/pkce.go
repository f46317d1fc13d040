package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Pair is a PKCE verifier and its S256 challenge. The verifier stays local
// until the token exchange; only the challenge travels to the provider.
type Pair struct {
	Verifier  string
	Challenge string
}

// NewPair generates a fresh code verifier (43-character base64url of 32
// random bytes, within RFC 7636 bounds) and its S256 challenge.
func NewPair() (Pair, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return Pair{}, fmt.Errorf("generate code verifier: %w", err)
	}
	verifier := base64.RawURLEncoding.EncodeToString(b)
	return Pair{Verifier: verifier, Challenge: ChallengeS256(verifier)}, nil
}

// ChallengeS256 computes the S256 code challenge for a verifier:
// base64url(sha256(verifier)) without padding.
func ChallengeS256(verifier string) string {
	digest := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}
