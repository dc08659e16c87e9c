package utils

import "unicode/utf8"

// Truncate shortens s to at most max runes, appending "..." when shortened.
// Non-positive max returns s unchanged. Counting runes keeps multibyte text
// from being cut mid-character in logs and CLI output.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
