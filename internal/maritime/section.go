package maritime

import "regexp"

// SectionField binds a section-local pattern set to an output field.
type SectionField struct {
	Output   string
	Patterns []Pattern
}

// SectionSpec scopes a small field set to a bounded region of the document.
type SectionSpec struct {
	Name   string
	Start  *regexp.Regexp
	Ends   []*regexp.Regexp
	Fields []SectionField
}

// ExtractSection returns the text after the first start anchor up to the earliest
// end anchor, or to the end of text. It reports false when the start anchor is absent.
func ExtractSection(spec SectionSpec, text string) (string, bool) {
	loc := spec.Start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	body := text[loc[1]:]
	end := len(body)
	for _, re := range spec.Ends {
		if m := re.FindStringIndex(body); m != nil && m[0] < end {
			end = m[0]
		}
	}
	return body[:end], true
}

// resolveSection runs the section's fields against its own sub-text only.
func resolveSection(spec SectionSpec, text string, rec Record) {
	body, ok := ExtractSection(spec, text)
	if !ok {
		return
	}
	for _, f := range spec.Fields {
		if v, ok := Resolve(f.Patterns, body); ok {
			rec[f.Output] = v
		}
	}
}
