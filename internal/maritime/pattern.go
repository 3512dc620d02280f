package maritime

import (
	"regexp"
	"strings"
)

// Pattern is one matcher of a field. A capture pattern yields the first non-empty
// group it captured; a probe has no groups and yields Constant when it matches.
type Pattern struct {
	re       *regexp.Regexp
	constant string
}

// Capture compiles a case-insensitive capture pattern. expr must have at least one group.
func Capture(expr string) Pattern {
	re := regexp.MustCompile(`(?i)` + expr)
	if re.NumSubexp() == 0 {
		panic("maritime: capture pattern without group: " + expr)
	}
	return Pattern{re: re}
}

// Probe compiles a case-insensitive existence probe that resolves to constant.
func Probe(expr, constant string) Pattern {
	re := regexp.MustCompile(`(?i)` + expr)
	if re.NumSubexp() != 0 {
		panic("maritime: probe pattern with group: " + expr)
	}
	return Pattern{re: re, constant: constant}
}

// IsProbe reports whether p is a zero-group existence probe.
func (p Pattern) IsProbe() bool { return p.re.NumSubexp() == 0 }

// String returns the source expression.
func (p Pattern) String() string { return p.re.String() }

// Match runs p against text. It returns the trimmed capture (or the probe constant)
// and whether p produced a usable value.
func (p Pattern) Match(text string) (string, bool) {
	if p.IsProbe() {
		if p.re.MatchString(text) {
			return p.constant, true
		}
		return "", false
	}
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	for _, g := range m[1:] {
		if v := strings.TrimSpace(g); v != "" {
			return v, true
		}
	}
	return "", false
}

// Resolve tries patterns in order and returns the first value produced.
// Order is significant: the first hit wins and later patterns are never consulted.
func Resolve(patterns []Pattern, text string) (string, bool) {
	for _, p := range patterns {
		if v, ok := p.Match(text); ok {
			return v, true
		}
	}
	return "", false
}
