package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/maritime-tracker/internal/app"
	"github.com/joseph-ayodele/maritime-tracker/internal/common"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem   = flag.Bool("inmem", false, "use an in-memory SQLite database")
		dir     = flag.String("dir", "", "directory of operation reports to process (required)")
		out     = flag.String("out", "", "output XLSX file path (defaults to <dir>/../operations.xlsx)")
		limit   = flag.Int("limit", 4, "files processed concurrently")
		fromStr = flag.String("from", "", "export jobs finished on or after YYYY-MM-DD")
		toStr   = flag.String("to", "", "export jobs finished on or before YYYY-MM-DD")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "operations.xlsx")
	}

	from, err := parseDate(*fromStr)
	if err != nil {
		printError("Error: invalid --from date format, use YYYY-MM-DD: %v\n", err)
		os.Exit(1)
	}
	to, err := parseDate(*toStr)
	if err != nil {
		printError("Error: invalid --to date format, use YYYY-MM-DD: %v\n", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if *inmem {
		cfg.Database.DSN = ":memory:"
	}
	if cfg.Database.DSN == "" {
		printError("Error: DB_URL is required (or pass --inmem)\n")
		os.Exit(1)
	}
	logger := common.NewLogger(os.Stdout, cfg.Log.Level, "json")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	logger.Info("starting ingestion", "dir", *dir)
	results, stats, err := a.Ingestor.IngestDirectory(ctx, *dir, true)
	if err != nil {
		logger.Error("failed to ingest directory", "error", err)
		os.Exit(1)
	}

	var ingested []uuid.UUID
	for _, r := range results {
		if r.Err != "" {
			continue
		}
		id, err := uuid.Parse(r.FileID)
		if err != nil {
			logger.Error("failed to parse file ID", "file_id", r.FileID, "error", err)
			continue
		}
		ingested = append(ingested, id)
	}
	logger.Info("ingestion complete",
		"files_ingested", len(ingested),
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated)

	processed, err := a.Processor.ProcessAll(ctx, ingested, *limit)
	if err != nil {
		logger.Error("batch interrupted", "error", err)
		os.Exit(1)
	}
	failures, review := 0, 0
	for _, r := range processed {
		switch {
		case r.Err != nil:
			failures++
		case r.Parse.NeedsReview:
			review++
		}
	}

	logger.Info("exporting to XLSX", "output", *out)
	xlsx, err := a.Export.ExportRecordsXLSX(ctx, from, to)
	if err != nil {
		logger.Error("failed to export records", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files_ingested", len(ingested),
		"files_processed", len(processed)-failures,
		"needs_review", review,
		"failures", failures,
		"output", *out)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
