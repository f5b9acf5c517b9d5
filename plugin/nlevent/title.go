package nlevent

import (
	"regexp"
	"strings"
)

// particles are stripped from both edges of the remaining title text.
var particles = []string{"から", "まで", "に", "で", "の", "を", "が", "は", "へ", "と"}

// Residual time fragments the resolver's span may not have covered.
var (
	periodFragmentPattern    = regexp.MustCompile(`(午前|午後|朝|夕方|夜|昼)\s*[0-9０-９]{1,2}時(半|[0-5０-５][0-9０-９]分?|[0-9０-９]分)?`)
	timeFragmentPattern      = regexp.MustCompile(`[0-9０-９]{1,2}時(半|[0-5０-５][0-9０-９]分?|[0-9０-９]分)?`)
	connectorFragmentPattern = regexp.MustCompile(`から|まで|〜|～`)
)

// extractTitle removes the matched temporal span from text and cleans up what
// is left. It returns placeholder when nothing meaningful remains.
func extractTitle(text string, m temporalMatch, placeholder string) string {
	title := excise(text, m)
	title = trimParticles(title)

	title = periodFragmentPattern.ReplaceAllString(title, "")
	title = timeFragmentPattern.ReplaceAllString(title, "")
	title = connectorFragmentPattern.ReplaceAllString(title, "")

	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return placeholder
	}
	return title
}

// excise cuts the match out of text by offset, falling back to the first
// occurrence of the matched substring if the offsets do not line up.
func excise(text string, m temporalMatch) string {
	end := m.Offset + m.Length
	if m.Offset >= 0 && end <= len(text) && text[m.Offset:end] == m.Text {
		return text[:m.Offset] + text[end:]
	}
	return strings.Replace(text, m.Text, "", 1)
}

// trimParticles strips particles from both edges until neither edge changes.
func trimParticles(s string) string {
	for {
		before := s
		s = strings.TrimSpace(s)
		for _, p := range particles {
			if strings.HasPrefix(s, p) {
				s = strings.TrimSpace(strings.TrimPrefix(s, p))
				break
			}
		}
		for _, p := range particles {
			if strings.HasSuffix(s, p) {
				s = strings.TrimSpace(strings.TrimSuffix(s, p))
				break
			}
		}
		if s == before {
			return s
		}
	}
}
