package domain

import (
	"strings"
	"unicode"
)

// Slugify converts a display name into an SEO-friendly URL part:
// lowercase, non-alphanumeric runs collapsed into single hyphens,
// leading/trailing hyphens trimmed.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	prevHyphen := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if prevHyphen {
			continue
		}
		b.WriteRune('-')
		prevHyphen = true
	}

	return strings.Trim(b.String(), "-")
}
