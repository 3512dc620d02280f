package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceKind constants.SourceKind
	Method     string // "native" | "pdftotext" | "plain"
	Duration   time.Duration
	Warnings   []string
}

// FieldExtractor is Stage 2: text -> structured record (rules).
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string, kind constants.SourceKind) (FieldsResult, error)
}

type FieldsResult struct {
	// Record is the sparse field map; values are string, int or float64.
	Record   map[string]any
	JSON     string
	Resolved int
	Method   string
}
