package constants

import "strings"

// SourceKind is the declared kind of a raw document.
type SourceKind string

const (
	PDF  SourceKind = "pdf"
	CSV  SourceKind = "csv"
	TEXT SourceKind = "text"
)

// SourceKinds holds the allowed values for the format column of extract_job.
var SourceKinds = []string{string(PDF), string(CSV), string(TEXT)}

// AllowedExtensions holds the file extensions accepted for ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"csv": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsAllowedExt reports whether ext (with or without dot) may be ingested.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MapExtToKind maps a file extension to its source kind, or "" if unsupported.
func MapExtToKind(ext string) SourceKind {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "csv":
		return CSV
	case "txt", "text":
		return TEXT
	default:
		return ""
	}
}

// ParseSourceKind accepts "pdf", "csv", "text" or "txt" in any case.
// Unknown values fall back to TEXT.
func ParseSourceKind(s string) SourceKind {
	if k := MapExtToKind(s); k != "" {
		return k
	}
	return TEXT
}
