package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/maritime-tracker/internal/acquire"
)

type TextAdapter struct {
	e *acquire.Extractor
}

func NewTextAdapter(e *acquire.Extractor, _ *slog.Logger) *TextAdapter {
	return &TextAdapter{e: e}
}

func (a *TextAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, path)
	return TextExtractionResult{
		Text:       r.Text,
		Pages:      r.Pages,
		SourceKind: r.SourceKind,
		Method:     r.Method,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
	}, err
}

var _ TextExtractor = (*TextAdapter)(nil)
