package verify

import (
	"strings"

	"github.com/signal-verifier/internal/domain"
)

// projectKeywords is checked in fixed priority order; the first project with
// any keyword present in the text blob wins.
var projectKeywords = []struct {
	project  domain.Project
	keywords []string
}{
	{domain.ProjectWallchain, []string{"wallchain", "quacks", "quack balance"}},
	{domain.ProjectKaito, []string{"kaito", "total yaps", "earned yaps"}},
	{domain.ProjectXeet, []string{"xeet", "xeets earned"}},
	{domain.ProjectCookie, []string{"cookie", "snaps earned", "total snaps"}},
	{domain.ProjectMindoshare, []string{"kol score", "mindoshare"}},
}

// Classify decides which scoring project's dashboard the detected regions
// belong to by substring search over the lower-cased concatenation of all
// region texts. Returns ProjectUnknown when nothing matches.
func Classify(regions []domain.Region) domain.Project {
	parts := make([]string, 0, len(regions))
	for _, r := range regions {
		parts = append(parts, strings.ToLower(r.Text))
	}
	blob := strings.Join(parts, " ")

	for _, pk := range projectKeywords {
		for _, kw := range pk.keywords {
			if strings.Contains(blob, kw) {
				return pk.project
			}
		}
	}
	return domain.ProjectUnknown
}
