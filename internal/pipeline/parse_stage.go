package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/maritime-tracker/constants"
	"github.com/joseph-ayodele/maritime-tracker/internal/extract"
	"github.com/joseph-ayodele/maritime-tracker/internal/maritime"
	"github.com/joseph-ayodele/maritime-tracker/internal/repository"
	"github.com/joseph-ayodele/maritime-tracker/internal/schema"
)

// ParseOutcome is what the parse stage stored on the job.
type ParseOutcome struct {
	Record      map[string]any
	JSON        string
	Resolved    int
	NeedsReview bool
}

type ParseStage struct {
	FilesRepo      repository.DocumentFileRepository
	JobsRepo       repository.ExtractJobRepository
	FieldExtractor extract.FieldExtractor
	Validator      *schema.Validator
	Logger         *slog.Logger
}

func NewParseStage(
	files repository.DocumentFileRepository,
	jobs repository.ExtractJobRepository,
	fx extract.FieldExtractor,
	validator *schema.Validator,
	logger *slog.Logger,
) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStage{FilesRepo: files, JobsRepo: jobs, FieldExtractor: fx, Validator: validator, Logger: logger}
}

// Run extracts the record from a TEXT_OK job and marks it PARSED.
// needs_review is set when the vessel name is missing or the record fails the schema.
func (s *ParseStage) Run(ctx context.Context, jobID uuid.UUID) (ParseOutcome, error) {
	job, err := s.JobsRepo.Get(ctx, jobID)
	if err != nil {
		return ParseOutcome{}, fmt.Errorf("load job: %w", err)
	}
	if job.Status != constants.JobStatusTextOK || job.RawText == nil {
		return ParseOutcome{}, fmt.Errorf("job not ready for parse: status=%s raw_text_empty=%t", job.Status, job.RawText == nil)
	}

	kind := constants.SourceKind(job.Format)
	if file, err := s.FilesRepo.GetByID(ctx, job.FileID); err == nil {
		kind = file.SourceKind
	} else if !errors.Is(err, repository.ErrNotFound) {
		return ParseOutcome{}, fmt.Errorf("load file: %w", err)
	}

	s.Logger.Debug("parse fields start", "job_id", job.ID, "file_id", job.FileID, "text_bytes", len(*job.RawText), "source_kind", kind)

	res, err := s.FieldExtractor.ExtractFields(ctx, *job.RawText, kind)
	if err != nil {
		s.fail(ctx, job.ID, err)
		return ParseOutcome{}, fmt.Errorf("extract fields: %w", err)
	}

	needsReview := false
	if v, ok := res.Record[maritime.FieldVesselName].(string); !ok || v == "" {
		s.Logger.Warn("vessel name not found; needs review", "job_id", job.ID)
		needsReview = true
	}
	if s.Validator != nil {
		if err := s.Validator.Validate([]byte(res.JSON)); err != nil {
			s.Logger.Warn("record failed schema validation; needs review", "job_id", job.ID, "error", err)
			needsReview = true
		}
	}

	if err := s.JobsRepo.FinishParseSuccess(ctx, job.ID, res.JSON, res.Resolved, needsReview); err != nil {
		return ParseOutcome{}, err
	}

	s.Logger.Info("parsed fields successfully",
		"job_id", job.ID,
		"resolved_fields", res.Resolved,
		"vessel_name", res.Record[maritime.FieldVesselName],
		"needs_review", needsReview,
	)
	return ParseOutcome{Record: res.Record, JSON: res.JSON, Resolved: res.Resolved, NeedsReview: needsReview}, nil
}

func (s *ParseStage) fail(ctx context.Context, jobID uuid.UUID, cause error) {
	if err := s.JobsRepo.FinishFailure(ctx, jobID, cause.Error()); err != nil {
		s.Logger.Error("failed to record parse failure", "job_id", jobID, "error", err)
	}
}
