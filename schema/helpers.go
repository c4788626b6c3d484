package schema

import (
	"strings"
	"unicode"
)

// trimPart strips non-alphanumeric punctuation from both ends of a name part.
func trimPart(p string) string {
	cp := strings.TrimFunc(p, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '\'' {
			return false
		}
		return true
	})
	return cp
}

// DisplayName formats "Samuel Huang" to "Samuel H" for compact table output.
// Single-word names are returned unchanged, and bot accounts (e.g.
// dependabot[bot]) are never abbreviated.
func DisplayName(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.Contains(trimmed, "[bot]") {
		return trimmed
	}

	var parts []string
	for _, p := range strings.Fields(strings.Trim(trimmed, "()\"'`")) {
		if cp := trimPart(p); cp != "" {
			parts = append(parts, cp)
		}
	}
	switch len(parts) {
	case 0:
		return trimmed
	case 1:
		return parts[0]
	default:
		last := []rune(parts[len(parts)-1])
		return parts[0] + " " + string(last[0])
	}
}
