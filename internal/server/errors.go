package server

import (
	"context"
	"errors"
	"os"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/maritime-tracker/internal/acquire"
	"github.com/joseph-ayodele/maritime-tracker/internal/common"
	"github.com/joseph-ayodele/maritime-tracker/internal/ingest"
	"github.com/joseph-ayodele/maritime-tracker/internal/repository"
)

// statusFromError maps domain errors onto gRPC status codes.
func statusFromError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if ae, ok := acquire.AsAcquisitionError(err); ok {
		switch ae.Reason {
		case acquire.ReasonUnreadable:
			return common.NotFoundError(ae.Message)
		default:
			return common.InvalidArgumentError(ae.Message)
		}
	}
	switch {
	case errors.Is(err, ingest.ErrUnsupportedExt):
		return common.InvalidArgumentError(err.Error())
	case errors.Is(err, os.ErrNotExist), errors.Is(err, repository.ErrNotFound):
		return common.NotFoundError(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	return common.InternalError(err.Error())
}
