package verify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/signal-verifier/internal/domain"
)

// Horizontal center-alignment tolerances between a numeric candidate and its
// anchor label. Kaito and Xeet dashboards render noticeably wider numerals,
// so they get wider windows.
const (
	defaultXTolerance = 100.0
	xeetXTolerance    = 200.0
	kaitoXTolerance   = 300.0

	cookieMaxDistance = 300.0
)

var numericPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// numericText strips whitespace and thousands separators from a region's text
// and reports whether the remainder is a plain integer or decimal.
func numericText(text string) (string, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if !numericPattern.MatchString(clean) {
		return "", false
	}
	return clean, true
}

// candidate is a numeric region competing to be the score. Glyph height is
// the primary rank (the headline score uses the biggest font); distance to
// the anchor breaks ties.
type candidate struct {
	height float64
	dist   float64
	text   string
}

func best(cands []candidate) string {
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].height != cands[j].height {
			return cands[i].height > cands[j].height
		}
		return cands[i].dist < cands[j].dist
	})
	return cands[0].text
}

// candidatesAbove collects numeric regions whose lower edge sits at or above
// the anchor's upper edge and whose center is horizontally aligned within xTol.
func candidatesAbove(regions []domain.Region, anchor domain.Region, xTol float64) []candidate {
	var cands []candidate
	for _, r := range regions {
		text, ok := numericText(r.Text)
		if !ok {
			continue
		}
		if abs(r.CenterX()-anchor.CenterX()) < xTol && r.Bottom() <= anchor.Top() {
			cands = append(cands, candidate{height: r.Height(), dist: anchor.Top() - r.Bottom(), text: text})
		}
	}
	return cands
}

// candidatesBelow collects numeric regions whose upper edge sits at or below
// the anchor's lower edge, aligned within xTol.
func candidatesBelow(regions []domain.Region, anchor domain.Region, xTol float64) []candidate {
	var cands []candidate
	for _, r := range regions {
		text, ok := numericText(r.Text)
		if !ok {
			continue
		}
		if abs(r.CenterX()-anchor.CenterX()) < xTol && r.Top() >= anchor.Bottom() {
			cands = append(cands, candidate{height: r.Height(), dist: r.Top() - anchor.Bottom(), text: text})
		}
	}
	return cands
}

// candidatesNear collects numeric regions within maxDist of the anchor's
// center, with no directional constraint.
func candidatesNear(regions []domain.Region, anchor domain.Region, maxDist float64) []candidate {
	var cands []candidate
	for _, r := range regions {
		text, ok := numericText(r.Text)
		if !ok {
			continue
		}
		if d := r.CenterDistance(anchor); d < maxDist {
			cands = append(cands, candidate{height: r.Height(), dist: d, text: text})
		}
	}
	return cands
}

// ExtractScore runs the extractor for the classified project. Unmatched
// projects fall through the Mindoshare, Wallchain, Kaito extractors in that
// order and return the first hit. Empty string means no score was found.
func ExtractScore(project domain.Project, regions []domain.Region) string {
	switch project {
	case domain.ProjectWallchain:
		return extractWallchain(regions)
	case domain.ProjectKaito:
		return extractKaito(regions)
	case domain.ProjectXeet:
		return extractXeet(regions)
	case domain.ProjectCookie:
		return extractCookie(regions)
	case domain.ProjectMindoshare:
		return extractMindoshare(regions)
	default:
		if s := extractMindoshare(regions); s != "" {
			return s
		}
		if s := extractWallchain(regions); s != "" {
			return s
		}
		return extractKaito(regions)
	}
}

// extractMindoshare anchors on the "KOL Score" label; the score sits above it.
func extractMindoshare(regions []domain.Region) string {
	anchor, ok := findAnchor(regions, func(t string) bool {
		return strings.Contains(t, "kol score")
	})
	if !ok {
		return ""
	}
	return best(candidatesAbove(regions, anchor, defaultXTolerance))
}

// extractWallchain anchors on the exact "Score" label; the number sits below.
func extractWallchain(regions []domain.Region) string {
	var anchor domain.Region
	found := false
	for _, r := range regions {
		if strings.TrimSpace(r.Text) == "Score" {
			anchor = r
			found = true
			break
		}
	}
	if !found {
		return ""
	}
	return best(candidatesBelow(regions, anchor, defaultXTolerance))
}

// extractKaito anchors on "Total Yaps". OCR often splits the label into
// separate "Total" and "Yaps" regions; the "Yaps" region is preferred as the
// anchor, falling back to whichever half was detected. The score sits below.
func extractKaito(regions []domain.Region) string {
	var totalBox, yapsBox *domain.Region
	for i := range regions {
		t := strings.ToLower(strings.TrimSpace(regions[i].Text))
		if strings.Contains(t, "total") && strings.Contains(t, "yaps") {
			totalBox = &regions[i]
			yapsBox = &regions[i]
			break
		}
		if t == "total" {
			totalBox = &regions[i]
		}
		if t == "yaps" {
			yapsBox = &regions[i]
		}
	}

	// When both halves of a split label exist, the "Yaps" box is the better
	// spatial reference for where the numeral renders; a lone half still works.
	var anchor *domain.Region
	switch {
	case yapsBox != nil:
		anchor = yapsBox
	case totalBox != nil:
		anchor = totalBox
	default:
		return ""
	}

	return best(candidatesBelow(regions, *anchor, kaitoXTolerance))
}

// extractXeet anchors on the "Xeets earned" label (bottom-left of the card);
// the number sits above it.
func extractXeet(regions []domain.Region) string {
	anchor, ok := findAnchor(regions, func(t string) bool {
		return strings.Contains(t, "xeets earned") ||
			(strings.Contains(t, "xeet") && strings.Contains(t, "earned"))
	})
	if !ok {
		anchor, ok = findAnchor(regions, func(t string) bool {
			return strings.Contains(t, "earned")
		})
	}
	if !ok {
		return ""
	}
	return best(candidatesAbove(regions, anchor, xeetXTolerance))
}

// extractCookie anchors on "Total snaps earned"; the layout places the number
// inconsistently, so candidates are filtered by straight-line distance only.
func extractCookie(regions []domain.Region) string {
	anchor, ok := findAnchor(regions, func(t string) bool {
		return strings.Contains(t, "total snaps earned") || strings.Contains(t, "snaps earned")
	})
	if !ok {
		anchor, ok = findAnchor(regions, func(t string) bool {
			return strings.Contains(t, "snaps") || strings.Contains(t, "earned")
		})
	}
	if !ok {
		return ""
	}
	return best(candidatesNear(regions, anchor, cookieMaxDistance))
}

// ExtractHandle returns the first @handle found in the regions, without the
// leading @. Tokens of three characters or fewer are ignored (avatars and
// stray glyphs routinely OCR as short @-prefixed noise).
func ExtractHandle(regions []domain.Region) string {
	for _, r := range regions {
		t := strings.TrimSpace(r.Text)
		if strings.HasPrefix(t, "@") && len(t) > 3 {
			return strings.TrimLeft(t, "@")
		}
	}
	return ""
}

func findAnchor(regions []domain.Region, match func(lowered string) bool) (domain.Region, bool) {
	for _, r := range regions {
		if match(strings.ToLower(strings.TrimSpace(r.Text))) {
			return r, true
		}
	}
	return domain.Region{}, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
