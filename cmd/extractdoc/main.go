package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/maritime-tracker/internal/acquire"
	"github.com/joseph-ayodele/maritime-tracker/internal/app"
	"github.com/joseph-ayodele/maritime-tracker/internal/common"
	"github.com/joseph-ayodele/maritime-tracker/internal/maritime"
)

// extractdoc prints the text preview and extracted record of one document.
// It does not touch the database.
func main() {
	var (
		showText = flag.Bool("text", false, "print the full normalized text instead of the preview")
		level    = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	logger := common.NewLogger(os.Stderr, *level, "text")
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "extractdoc [-text] <report.pdf|.csv|.txt>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := acquire.NewExtractor(app.AcquireConfig(cfg.Acquire), logger).Extract(ctx, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	for _, w := range res.Warnings {
		logger.Warn("extraction warning", "warning", w)
	}

	rec := maritime.NewEngine(logger).Extract(res.Text, res.SourceKind)
	b, err := rec.JSON()
	if err != nil {
		logger.Error("encode record", "error", err)
		os.Exit(1)
	}

	text := acquire.Preview(res.Text)
	if *showText {
		text = res.Text
	}
	fmt.Printf("--- %s (%s, %s, %d page(s)) ---\n%s\n--- record (%d fields) ---\n%s\n",
		path, res.SourceKind, res.Method, res.Pages, text, len(rec), b)
}
