package handler

import (
	"errors"

	"github.com/ogurasousui/worker-registry/internal/core/worker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, worker.ErrInvalidWorker):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, worker.ErrWorkerNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
