package pkce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeS256_RFC7636Vector(t *testing.T) {
	// Appendix B of RFC 7636.
	got := ChallengeS256("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", got)
}

func TestNewPair_VerifierLengthAndUniqueness(t *testing.T) {
	a, err := NewPair()
	require.NoError(t, err)
	b, err := NewPair()
	require.NoError(t, err)

	assert.Len(t, a.Verifier, 43)
	assert.NotEqual(t, a.Verifier, b.Verifier)
	assert.Equal(t, ChallengeS256(a.Verifier), a.Challenge)
}
