package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SanitizeName trims a task name or unit and drops every control character.
func SanitizeName(name string) string {
	return strings.Map(dropControl(false), strings.TrimSpace(name))
}

// SanitizeDescription normalizes line endings to \n and drops control
// characters other than newline and tab.
func SanitizeDescription(desc string) string {
	return strings.TrimSpace(StripControlChars(lineEndings.Replace(desc)))
}

// StripControlChars removes all control characters except newline and tab.
func StripControlChars(s string) string {
	return strings.Map(dropControl(true), s)
}

func dropControl(keepLayout bool) func(rune) rune {
	return func(r rune) rune {
		if keepLayout && (r == '\n' || r == '\t') {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}
}

// TruncateString shortens s to maxLen runes, ending in "..." when there is
// room for it.
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
