package slugify

import (
	"strings"
	"unicode"
)

// Make normalizes a display name into a URL-safe slug base: lowercase,
// characters outside [a-z0-9 -] stripped, whitespace runs collapsed to
// a single hyphen, truncated to maxLength runes. maxLength <= 0 means
// no limit. Truncation never leaves a trailing hyphen.
func Make(s string, maxLength int) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))

	lastWasHyphen := true // suppresses a leading hyphen

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !lastWasHyphen {
				b.WriteByte('-')
				lastWasHyphen = true
			}
		default:
			// stripped
		}
	}

	result := strings.TrimSuffix(b.String(), "-")

	if maxLength > 0 {
		runes := []rune(result)
		if len(runes) > maxLength {
			result = strings.TrimSuffix(string(runes[:maxLength]), "-")
		}
	}

	return result
}
