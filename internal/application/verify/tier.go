package verify

import (
	"strconv"
	"strings"

	"github.com/signal-verifier/internal/domain"
)

// Reward tier names, shared across projects.
const (
	TierLite      = "Signal Lite"
	TierAmplifier = "Signal Amplifier"
	TierTop       = "Top Signal"
)

// ResolveTier maps a project and its raw score text to a tier name.
//
// The per-project interval boundaries are intentionally asymmetric (open vs
// closed bounds differ between projects) and are preserved exactly; values
// falling into a boundary gap or below the lowest bound yield no tier.
// Mindoshare has no threshold table and unparsable scores cannot be bucketed;
// both degrade to a literal "Score <raw>" label so the result stays visible.
func ResolveTier(project domain.Project, rawScore string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(rawScore), ",", "")
	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return "Score " + rawScore
	}

	switch project {
	case domain.ProjectKaito:
		switch {
		case val >= 1000:
			return TierTop
		case val >= 200:
			return TierAmplifier
		case val > 50:
			return TierLite
		}
	case domain.ProjectWallchain:
		switch {
		case val >= 401:
			return TierTop
		case val >= 76 && val <= 400:
			return TierAmplifier
		case val > 10 && val <= 75:
			return TierLite
		}
	case domain.ProjectCookie:
		switch {
		case val >= 401:
			return TierTop
		case val >= 201 && val <= 400:
			return TierAmplifier
		case val >= 10 && val <= 200:
			return TierLite
		}
	case domain.ProjectXeet:
		switch {
		case val >= 1100:
			return TierTop
		case val >= 301 && val < 1100:
			return TierAmplifier
		case val >= 100 && val <= 300:
			return TierLite
		}
	default:
		return "Score " + rawScore
	}
	return ""
}
