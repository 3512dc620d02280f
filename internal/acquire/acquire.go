package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

// DefaultMaxFileSize matches the upload limit of the operations portal.
const DefaultMaxFileSize int64 = 16 << 20

// PDF engines.
const (
	EngineNative    = "native"
	EnginePdftotext = "pdftotext"
)

// Text methods recorded on results.
const (
	MethodNative    = "native"
	MethodPdftotext = "pdftotext"
	MethodPlain     = "plain"
)

type Config struct {
	PDFEngine   string // "native" (default) | "pdftotext"
	Pdftotext   string // binary name or absolute path; if empty -> "pdftotext"
	MaxFileSize int64  // bytes; 0 -> DefaultMaxFileSize, <0 -> no limit
	MaxPages    int    // 0 = no limit
}

type Result struct {
	Text       string
	Pages      int
	SourceKind constants.SourceKind
	Method     string
	Duration   time.Duration
	Warnings   []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PDFEngine == "" {
		cfg.PDFEngine = EngineNative
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Extract reads path and returns its normalized text. Every failure is an
// *AcquisitionError.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	kind := constants.MapExtToKind(ext)
	e.logger.Debug("starting text acquisition", "path", path, "ext", ext, "engine", e.cfg.PDFEngine)

	if kind == "" {
		e.logger.Warn("unsupported extension", "path", path, "extension", ext)
		return Result{}, newError(ReasonUnsupported, path, msgUnsupported, nil)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return Result{SourceKind: kind}, newError(ReasonUnreadable, path, fmt.Sprintf("File not found at path: %s", path), err)
	}
	if fi.IsDir() {
		return Result{SourceKind: kind}, newError(ReasonUnreadable, path, fmt.Sprintf("Path is a directory: %s", path), nil)
	}
	if e.cfg.MaxFileSize > 0 && fi.Size() > e.cfg.MaxFileSize {
		return Result{SourceKind: kind}, newError(ReasonTooLarge, path,
			fmt.Sprintf("File too large (%d bytes). Maximum size is %d bytes.", fi.Size(), e.cfg.MaxFileSize), nil)
	}

	var res Result
	switch kind {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	default:
		res, err = e.readPlain(path, kind)
	}
	res.SourceKind = kind
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("text acquisition failed", "path", path, "kind", kind, "error", err)
		return res, err
	}

	res.Text = Normalize(res.Text)
	if strings.TrimSpace(res.Text) == "" {
		return res, newError(ReasonEmpty, path, emptyMessage(kind), nil)
	}

	e.logger.Info("text acquired",
		"path", path,
		"kind", kind,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
		"warnings", len(res.Warnings))
	return res, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	if e.cfg.PDFEngine == EnginePdftotext {
		text, pages, warns, err := e.pdfToText(ctx, path)
		if err != nil {
			return Result{Warnings: warns}, newError(ReasonUnreadable, path, fmt.Sprintf("Error reading PDF: %v", err), err)
		}
		return Result{Text: text, Pages: pages, Method: MethodPdftotext, Warnings: warns}, nil
	}

	text, pages, warns, err := e.nativeText(ctx, path)
	if err != nil {
		return Result{Warnings: warns}, newError(ReasonUnreadable, path, fmt.Sprintf("Error reading PDF: %v", err), err)
	}
	return Result{Text: text, Pages: pages, Method: MethodNative, Warnings: warns}, nil
}
