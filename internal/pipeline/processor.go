package processor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/maritime-tracker/internal/extract"
)

// Processor coordinates text acquisition then rule-based field extraction.
type Processor struct {
	Logger *slog.Logger
	Text   *TextStage
	Parse  *ParseStage
}

// Result is the outcome of processing one file.
type Result struct {
	FileID uuid.UUID
	JobID  uuid.UUID
	Text   extract.TextExtractionResult
	Parse  ParseOutcome
	Err    error
}

func NewProcessor(logger *slog.Logger, text *TextStage, parse *ParseStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Parse: parse}
}

// ProcessFile runs the text stage for fileID (creating an extract_job),
// then the parse stage on the same job.
func (p *Processor) ProcessFile(ctx context.Context, fileID uuid.UUID) (Result, error) {
	out := Result{FileID: fileID}

	jobID, textRes, err := p.Text.Run(ctx, fileID)
	out.JobID, out.Text = jobID, textRes
	if err != nil {
		p.Logger.Error("processor text stage failed", "file_id", fileID, "job_id", jobID, "error", err)
		out.Err = err
		return out, err
	}
	p.Logger.Debug("processor text stage ok",
		"file_id", fileID,
		"job_id", jobID,
		"method", textRes.Method,
		"pages", textRes.Pages,
		"duration", textRes.Duration,
	)

	parsed, err := p.Parse.Run(ctx, jobID)
	out.Parse = parsed
	if err != nil {
		p.Logger.Error("processor parse stage failed", "job_id", jobID, "error", err)
		out.Err = err
		return out, err
	}
	p.Logger.Debug("processor parse stage ok", "job_id", jobID, "needs_review", parsed.NeedsReview)
	return out, nil
}

// ProcessAll processes fileIDs with at most limit files in flight (limit <= 0 means unbounded).
// A failing file does not stop the others; per-file errors are in each Result.
// The returned error is non-nil only when ctx ends first.
func (p *Processor) ProcessAll(ctx context.Context, fileIDs []uuid.UUID, limit int) ([]Result, error) {
	results := make([]Result, len(fileIDs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	var mu sync.Mutex
	failed := 0
	for i, id := range fileIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{FileID: id, Err: err}
				return err
			}
			res, err := p.ProcessFile(gctx, id)
			results[i] = res
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()
	p.Logger.Info("batch processed", "files", len(fileIDs), "failed", failed)
	return results, err
}
