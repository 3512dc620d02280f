package maritime

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/maritime-tracker/constants"
	"github.com/joseph-ayodele/maritime-tracker/internal/extract"
)

// MethodRules names the rule-based field extractor in persisted jobs.
const MethodRules = "rules"

// Engine turns document text into a Record. It holds no per-call state; one Engine
// may serve any number of goroutines.
type Engine struct {
	lib    *Library
	logger *slog.Logger
}

// NewEngine returns an Engine over the default library.
func NewEngine(logger *slog.Logger) *Engine {
	return NewEngineWithLibrary(nil, logger)
}

// NewEngineWithLibrary returns an Engine over a copy of lib.
func NewEngineWithLibrary(lib *Library, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if lib == nil {
		return &Engine{lib: defaultLibrary, logger: logger}
	}
	return &Engine{lib: lib.clone(), logger: logger}
}

// Extract runs the simple fields, then the section-scoped fields, then coercion.
// Missing fields are omitted. Empty text yields an empty, non-nil record.
func (e *Engine) Extract(text string, kind constants.SourceKind) Record {
	rec := make(Record)
	if strings.TrimSpace(text) == "" {
		return rec
	}

	for _, f := range e.lib.Fields {
		if v, ok := resolveField(f, text); ok {
			rec[f.Name] = v
		}
	}
	for _, s := range e.lib.Sections {
		resolveSection(s, text, rec)
	}
	Coerce(rec, e.logger)

	e.logger.Debug("fields extracted",
		"source_kind", string(kind),
		"text_len", len(text),
		"resolved", len(rec))
	return rec
}

// resolveField walks the patterns in order. A capture the normalizer rejects
// does not end the walk; later patterns still get their turn.
func resolveField(f FieldSpec, text string) (string, bool) {
	for _, p := range f.Patterns {
		v, ok := p.Match(text)
		if !ok {
			continue
		}
		if f.Normalize == nil {
			return v, true
		}
		if n, ok := f.Normalize(v); ok && n != "" {
			return n, true
		}
	}
	return "", false
}

// ExtractFields implements extract.FieldExtractor.
func (e *Engine) ExtractFields(ctx context.Context, text string, kind constants.SourceKind) (extract.FieldsResult, error) {
	if err := ctx.Err(); err != nil {
		return extract.FieldsResult{}, err
	}
	rec := e.Extract(text, kind)
	b, err := rec.JSON()
	if err != nil {
		return extract.FieldsResult{}, err
	}
	return extract.FieldsResult{
		Record:   map[string]any(rec),
		JSON:     string(b),
		Resolved: len(rec),
		Method:   MethodRules,
	}, nil
}

var _ extract.FieldExtractor = (*Engine)(nil)
