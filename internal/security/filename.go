// Package security holds helpers for turning untrusted identifiers from
// cohort manifests into safe file names.
package security

import "strings"

const maxFilenameLen = 128

// SanitizeFilename keeps ASCII letters, digits, dot, underscore and dash.
// Any other run of characters becomes one underscore. Leading and trailing
// dots and underscores are trimmed, so the result never names a parent
// directory. An empty result becomes "unknown".
func SanitizeFilename(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxFilenameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
