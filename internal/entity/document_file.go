package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

// DocumentFile represents an ingested operations document.
type DocumentFile struct {
	ID          uuid.UUID            `json:"id"`
	SourcePath  string               `json:"source_path"`
	ContentHash []byte               `json:"content_hash"`
	Filename    string               `json:"filename"`
	FileExt     string               `json:"file_ext"`
	SourceKind  constants.SourceKind `json:"source_kind"`
	FileSize    int64                `json:"file_size"`
	UploadedAt  time.Time            `json:"uploaded_at"`
}
