package async

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job is one file waiting to be processed.
type Job struct {
	FileID      uuid.UUID
	Force       bool // enqueue even if deduplicated
	SubmittedAt time.Time
	Source      string // "watch", "grpc", "batch"
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
