package acquire

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// PreviewLimit is the number of characters shown in a text preview.
const PreviewLimit = 1000

// Normalize collapses noisy whitespace. It keeps line breaks and collapses more
// than two newlines into a single blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Preview returns the first PreviewLimit characters of text, with "..." appended
// when it was cut. It is for display only.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewLimit {
		return text
	}
	n := 0
	for i := range text {
		if n == PreviewLimit {
			return text[:i] + "..."
		}
		n++
	}
	return text
}
