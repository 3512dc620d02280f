package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

// ExtractJob is one text + parse run over a DocumentFile.
type ExtractJob struct {
	ID             uuid.UUID           `json:"id"`
	FileID         uuid.UUID           `json:"file_id"`
	Format         string              `json:"format"`
	Status         constants.JobStatus `json:"status"`
	StartedAt      time.Time           `json:"started_at"`
	FinishedAt     *time.Time          `json:"finished_at,omitempty"`
	ErrorMessage   *string             `json:"error_message,omitempty"`
	Method         *string             `json:"method,omitempty"`
	Pages          int                 `json:"pages"`
	RawText        *string             `json:"raw_text,omitempty"`
	RecordJSON     json.RawMessage     `json:"record_json,omitempty"`
	ResolvedFields int                 `json:"resolved_fields"`
	NeedsReview    bool                `json:"needs_review"`
}

// ParsedRecord is a parsed job joined with its source file, as exported.
type ParsedRecord struct {
	JobID       uuid.UUID       `json:"job_id"`
	FileID      uuid.UUID       `json:"file_id"`
	SourcePath  string          `json:"source_path"`
	Filename    string          `json:"filename"`
	FinishedAt  time.Time       `json:"finished_at"`
	RecordJSON  json.RawMessage `json:"record_json"`
	NeedsReview bool            `json:"needs_review"`
}
