package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/maritime-tracker/constants"
	"github.com/joseph-ayodele/maritime-tracker/internal/extract"
	"github.com/joseph-ayodele/maritime-tracker/internal/repository"
)

type TextStage struct {
	FilesRepo     repository.DocumentFileRepository
	JobsRepo      repository.ExtractJobRepository
	TextExtractor extract.TextExtractor
	Logger        *slog.Logger
}

func NewTextStage(files repository.DocumentFileRepository, jobs repository.ExtractJobRepository, tx extract.TextExtractor, logger *slog.Logger) *TextStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextStage{FilesRepo: files, JobsRepo: jobs, TextExtractor: tx, Logger: logger}
}

// Run starts an extract_job, acquires the document text, and persists it (TEXT_OK).
// Returns the job ID and the extraction summary. The parse stage is NOT called.
func (s *TextStage) Run(ctx context.Context, fileID uuid.UUID) (uuid.UUID, extract.TextExtractionResult, error) {
	row, err := s.FilesRepo.GetByID(ctx, fileID)
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("get file: %w", err)
	}

	kind := constants.MapExtToKind(row.FileExt)
	if kind == "" {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("unsupported format: %s", row.FileExt)
	}

	job, err := s.JobsRepo.Start(ctx, row.ID, string(kind))
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, err
	}

	res, err := s.TextExtractor.Extract(ctx, row.SourcePath)
	if err != nil {
		if ferr := s.JobsRepo.FinishFailure(ctx, job.ID, err.Error()); ferr != nil {
			s.Logger.Error("failed to record text failure", "job_id", job.ID, "error", ferr)
		}
		return job.ID, res, err
	}
	for _, w := range res.Warnings {
		s.Logger.Warn("text extraction warning", "job_id", job.ID, "file_id", fileID, "warning", w)
	}

	if err := s.JobsRepo.FinishTextSuccess(ctx, job.ID, res.Text, res.Method, res.Pages); err != nil {
		return job.ID, res, err
	}
	return job.ID, res, nil
}
