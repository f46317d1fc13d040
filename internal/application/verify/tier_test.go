package verify

import (
	"testing"

	"github.com/signal-verifier/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolveTier_Kaito_Boundaries(t *testing.T) {
	assert.Equal(t, "", ResolveTier(domain.ProjectKaito, "50"))
	assert.Equal(t, TierLite, ResolveTier(domain.ProjectKaito, "50.01"))
	assert.Equal(t, TierLite, ResolveTier(domain.ProjectKaito, "199.99"))
	assert.Equal(t, TierAmplifier, ResolveTier(domain.ProjectKaito, "200"))
	assert.Equal(t, TierAmplifier, ResolveTier(domain.ProjectKaito, "999.99"))
	assert.Equal(t, TierTop, ResolveTier(domain.ProjectKaito, "1000"))
}

func TestResolveTier_Wallchain_Boundaries(t *testing.T) {
	assert.Equal(t, "", ResolveTier(domain.ProjectWallchain, "10"))
	assert.Equal(t, TierLite, ResolveTier(domain.ProjectWallchain, "10.5"))
	assert.Equal(t, TierLite, ResolveTier(domain.ProjectWallchain, "75"))
	assert.Equal(t, TierAmplifier, ResolveTier(domain.ProjectWallchain, "76"))
	assert.Equal(t, TierAmplifier, ResolveTier(domain.ProjectWallchain, "400"))
	assert.Equal(t, TierTop, ResolveTier(domain.ProjectWallchain, "401"))
}

func TestResolveTier_Wallchain_GapBetweenLiteAndAmplifier(t *testing.T) {
	// The source thresholds leave (75, 76) unassigned; that gap is kept as-is.
	assert.Equal(t, "", ResolveTier(domain.ProjectWallchain, "75.5"))
	assert.Equal(t, "", ResolveTier(domain.ProjectWallchain, "400.5"))
}

func TestResolveTier_Cookie_Boundaries(t *testing.T) {
	assert.Equal(t, "", ResolveTier(domain.ProjectCookie, "9.99"))
	assert.Equal(t, TierLite, ResolveTier(domain.ProjectCookie, "10"))
	assert.Equal(t, TierLite, ResolveTier(domain.ProjectCookie, "200"))
	assert.Equal(t, TierAmplifier, ResolveTier(domain.ProjectCookie, "201"))
	assert.Equal(t, TierAmplifier, ResolveTier(domain.ProjectCookie, "400"))
	assert.Equal(t, TierTop, ResolveTier(domain.ProjectCookie, "401"))
}

func TestResolveTier_Xeet_Boundaries(t *testing.T) {
	assert.Equal(t, "", ResolveTier(domain.ProjectXeet, "99"))
	assert.Equal(t, TierLite, ResolveTier(domain.ProjectXeet, "100"))
	assert.Equal(t, TierLite, ResolveTier(domain.ProjectXeet, "300"))
	assert.Equal(t, TierAmplifier, ResolveTier(domain.ProjectXeet, "301"))
	assert.Equal(t, TierAmplifier, ResolveTier(domain.ProjectXeet, "1099.99"))
	assert.Equal(t, TierTop, ResolveTier(domain.ProjectXeet, "1100"))
}

func TestResolveTier_Mindoshare_AlwaysLiteralLabel(t *testing.T) {
	assert.Equal(t, "Score 92.49", ResolveTier(domain.ProjectMindoshare, "92.49"))
}

func TestResolveTier_Unknown_AlwaysLiteralLabel(t *testing.T) {
	assert.Equal(t, "Score 500", ResolveTier(domain.ProjectUnknown, "500"))
}

func TestResolveTier_StripsThousandsSeparators(t *testing.T) {
	assert.Equal(t, TierTop, ResolveTier(domain.ProjectKaito, "1,266.88"))
}

func TestResolveTier_Unparsable_FallsBackToLiteralLabel(t *testing.T) {
	assert.Equal(t, "Score n/a", ResolveTier(domain.ProjectKaito, "n/a"))
	assert.Equal(t, "Score ", ResolveTier(domain.ProjectWallchain, ""))
}
