package server

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/maritime-tracker/internal/maritime"
)

// Wire messages travel as google.protobuf.Struct; these types are their Go shape.

type ExtractRequest struct {
	Text       string
	SourceKind string
}

type ExtractResponse struct {
	Record         maritime.Record
	Preview        string
	ResolvedFields int
}

type ExtractFileRequest struct {
	Path           string
	SkipDuplicates bool
}

type ExtractFileResponse struct {
	FileID         string
	JobID          string
	Deduplicated   bool
	ContentHashHex string
	Record         maritime.Record
	Preview        string
	NeedsReview    bool
	Error          string
}

type GetJobRequest struct {
	JobID string
}

type JobSummary struct {
	JobID          string
	FileID         string
	Status         string
	Method         string
	Pages          int
	ResolvedFields int
	NeedsReview    bool
	ErrorMessage   string
	StartedAt      string
	FinishedAt     string
	Record         maritime.Record
}

func (r ExtractRequest) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"text": r.Text, "source_kind": r.SourceKind})
}

func extractRequestFrom(s *structpb.Struct) ExtractRequest {
	return ExtractRequest{Text: str(s, "text"), SourceKind: str(s, "source_kind")}
}

func (r ExtractResponse) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"record":          recordValue(r.Record),
		"preview":         r.Preview,
		"resolved_fields": r.ResolvedFields,
	})
}

func extractResponseFrom(s *structpb.Struct) (ExtractResponse, error) {
	rec, err := recordFrom(s)
	if err != nil {
		return ExtractResponse{}, err
	}
	return ExtractResponse{Record: rec, Preview: str(s, "preview"), ResolvedFields: num(s, "resolved_fields")}, nil
}

func (r ExtractFileRequest) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"path": r.Path, "skip_duplicates": r.SkipDuplicates})
}

func extractFileRequestFrom(s *structpb.Struct) ExtractFileRequest {
	return ExtractFileRequest{Path: str(s, "path"), SkipDuplicates: boolean(s, "skip_duplicates")}
}

func (r ExtractFileResponse) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"file_id":          r.FileID,
		"job_id":           r.JobID,
		"deduplicated":     r.Deduplicated,
		"content_hash_hex": r.ContentHashHex,
		"record":           recordValue(r.Record),
		"preview":          r.Preview,
		"needs_review":     r.NeedsReview,
		"error":            r.Error,
	})
}

func extractFileResponseFrom(s *structpb.Struct) (ExtractFileResponse, error) {
	rec, err := recordFrom(s)
	if err != nil {
		return ExtractFileResponse{}, err
	}
	return ExtractFileResponse{
		FileID:         str(s, "file_id"),
		JobID:          str(s, "job_id"),
		Deduplicated:   boolean(s, "deduplicated"),
		ContentHashHex: str(s, "content_hash_hex"),
		Record:         rec,
		Preview:        str(s, "preview"),
		NeedsReview:    boolean(s, "needs_review"),
		Error:          str(s, "error"),
	}, nil
}

func (r GetJobRequest) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"job_id": r.JobID})
}

func getJobRequestFrom(s *structpb.Struct) GetJobRequest {
	return GetJobRequest{JobID: str(s, "job_id")}
}

func (j JobSummary) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"job_id":          j.JobID,
		"file_id":         j.FileID,
		"status":          j.Status,
		"method":          j.Method,
		"pages":           j.Pages,
		"resolved_fields": j.ResolvedFields,
		"needs_review":    j.NeedsReview,
		"error_message":   j.ErrorMessage,
		"started_at":      j.StartedAt,
		"finished_at":     j.FinishedAt,
		"record":          recordValue(j.Record),
	})
}

func jobSummaryFrom(s *structpb.Struct) (JobSummary, error) {
	rec, err := recordFrom(s)
	if err != nil {
		return JobSummary{}, err
	}
	return JobSummary{
		JobID:          str(s, "job_id"),
		FileID:         str(s, "file_id"),
		Status:         str(s, "status"),
		Method:         str(s, "method"),
		Pages:          num(s, "pages"),
		ResolvedFields: num(s, "resolved_fields"),
		NeedsReview:    boolean(s, "needs_review"),
		ErrorMessage:   str(s, "error_message"),
		StartedAt:      str(s, "started_at"),
		FinishedAt:     str(s, "finished_at"),
		Record:         rec,
	}, nil
}

func str(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func boolean(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

func num(s *structpb.Struct, key string) int {
	return int(s.GetFields()[key].GetNumberValue())
}

// recordValue drops the named map type, which structpb.NewValue does not accept.
func recordValue(r maritime.Record) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// recordFrom restores integer fields that structpb carried as numbers.
func recordFrom(s *structpb.Struct) (maritime.Record, error) {
	v, ok := s.GetFields()["record"]
	if !ok || v.GetStructValue() == nil {
		return maritime.Record{}, nil
	}
	b, err := json.Marshal(v.GetStructValue().AsMap())
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return maritime.DecodeRecord(b)
}
