package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/maritime-tracker/constants"
	"github.com/joseph-ayodele/maritime-tracker/internal/acquire"
	"github.com/joseph-ayodele/maritime-tracker/internal/common"
	"github.com/joseph-ayodele/maritime-tracker/internal/entity"
	"github.com/joseph-ayodele/maritime-tracker/internal/ingest"
	"github.com/joseph-ayodele/maritime-tracker/internal/maritime"
	processor "github.com/joseph-ayodele/maritime-tracker/internal/pipeline"
	"github.com/joseph-ayodele/maritime-tracker/internal/repository"
)

// ExtractionService implements maritime.v1.ExtractionService.
type ExtractionService struct {
	engine    *maritime.Engine
	ingestor  ingest.Ingestor
	processor *processor.Processor
	jobsRepo  repository.ExtractJobRepository
	logger    *slog.Logger
}

func NewExtractionService(
	engine *maritime.Engine,
	ing ingest.Ingestor,
	proc *processor.Processor,
	jobs repository.ExtractJobRepository,
	logger *slog.Logger,
) *ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionService{engine: engine, ingestor: ing, processor: proc, jobsRepo: jobs, logger: logger}
}

// Extract runs the rules over text supplied by the caller. Nothing is stored.
func (s *ExtractionService) Extract(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := extractRequestFrom(in)
	v := common.NewValidator().
		Field("source_kind", req.SourceKind, common.OneOf("pdf", "csv", "text", "txt"))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}

	kind := constants.ParseSourceKind(req.SourceKind)
	res, err := s.engine.ExtractFields(ctx, req.Text, kind)
	if err != nil {
		return nil, statusFromError(err)
	}
	s.logger.Debug("extract text", "source_kind", kind, "chars", len(req.Text), "resolved_fields", res.Resolved)

	out, err := ExtractResponse{
		Record:         maritime.Record(res.Record),
		Preview:        acquire.Preview(req.Text),
		ResolvedFields: res.Resolved,
	}.toStruct()
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

// ExtractFile ingests a document from the server's filesystem and processes it.
// Acquisition failures come back as status errors; the job is still recorded as FAILED.
func (s *ExtractionService) ExtractFile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := extractFileRequestFrom(in)
	log := common.LoggerFromContext(ctx, s.logger)
	path := strings.TrimSpace(req.Path)
	if err := common.ValidateAndReturnError(common.NewValidator().Field("path", path, common.Required)); err != nil {
		return nil, err
	}

	log.Info("starting file extract", "path", path, "skip_duplicates", req.SkipDuplicates)
	r, err := s.ingestor.IngestPath(ctx, path)
	if err != nil {
		log.Warn("ingest failed", "path", path, "error", err)
		return nil, statusFromError(err)
	}
	resp := ExtractFileResponse{
		FileID:         r.FileID,
		Deduplicated:   r.Deduplicated,
		ContentHashHex: r.HashHex,
	}
	fileID, err := uuid.Parse(r.FileID)
	if err != nil {
		return nil, common.InternalErrorf("bad file id %q", r.FileID)
	}

	if r.Deduplicated && req.SkipDuplicates {
		if job := s.latestParsed(ctx, fileID); job != nil {
			log.Info("duplicate file, reusing parsed job", "file_id", r.FileID, "job_id", job.ID)
			resp.JobID = job.ID.String()
			resp.NeedsReview = job.NeedsReview
			if job.RawText != nil {
				resp.Preview = acquire.Preview(*job.RawText)
			}
			if resp.Record, err = maritime.DecodeRecord(job.RecordJSON); err != nil {
				return nil, common.InternalErrorf("stored record: %v", err)
			}
			return encode(resp)
		}
	}

	res, err := s.processor.ProcessFile(ctx, fileID)
	if res.JobID != uuid.Nil {
		resp.JobID = res.JobID.String()
	}
	if err != nil {
		if _, ok := acquire.AsAcquisitionError(err); ok {
			return nil, statusFromError(err)
		}
		log.Error("pipeline failed", "file_id", r.FileID, "error", err)
		resp.Error = err.Error()
		return encode(resp)
	}
	resp.Preview = acquire.Preview(res.Text.Text)
	resp.Record = maritime.Record(res.Parse.Record)
	resp.NeedsReview = res.Parse.NeedsReview
	return encode(resp)
}

// GetJob returns one extraction job with its record.
func (s *ExtractionService) GetJob(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := getJobRequestFrom(in)
	v := common.NewValidator().Field("job_id", req.JobID, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	job, err := s.jobsRepo.Get(ctx, uuid.MustParse(req.JobID))
	if err != nil {
		return nil, statusFromError(err)
	}
	sum, err := summarize(job)
	if err != nil {
		return nil, common.InternalErrorf("stored record: %v", err)
	}
	out, err := sum.toStruct()
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

func (s *ExtractionService) latestParsed(ctx context.Context, fileID uuid.UUID) *entity.ExtractJob {
	jobs, err := s.jobsRepo.ListByFile(ctx, fileID)
	if err != nil {
		s.logger.Warn("list jobs for duplicate failed", "file_id", fileID, "error", err)
		return nil
	}
	var latest *entity.ExtractJob
	for _, j := range jobs {
		if j.Status == constants.JobStatusParsed && (latest == nil || !j.StartedAt.Before(latest.StartedAt)) {
			latest = j
		}
	}
	return latest
}

func summarize(job *entity.ExtractJob) (JobSummary, error) {
	sum := JobSummary{
		JobID:          job.ID.String(),
		FileID:         job.FileID.String(),
		Status:         string(job.Status),
		Pages:          job.Pages,
		ResolvedFields: job.ResolvedFields,
		NeedsReview:    job.NeedsReview,
		StartedAt:      job.StartedAt.UTC().Format(time.RFC3339Nano),
	}
	if job.Method != nil {
		sum.Method = *job.Method
	}
	if job.ErrorMessage != nil {
		sum.ErrorMessage = *job.ErrorMessage
	}
	if job.FinishedAt != nil {
		sum.FinishedAt = job.FinishedAt.UTC().Format(time.RFC3339Nano)
	}
	if len(job.RecordJSON) > 0 {
		rec, err := maritime.DecodeRecord(job.RecordJSON)
		if err != nil {
			return sum, err
		}
		sum.Record = rec
	}
	return sum, nil
}

func encode(resp ExtractFileResponse) (*structpb.Struct, error) {
	out, err := resp.toStruct()
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

var _ ExtractionServiceServer = (*ExtractionService)(nil)
