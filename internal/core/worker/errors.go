package worker

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWorker  = errors.New("worker: invalid worker")
	ErrWorkerNotFound = errors.New("worker: not found")
)

// Operation は NotFoundError が発生した操作の種別です。
type Operation string

const (
	OpGet     Operation = "get"
	OpReplace Operation = "replace"
	OpDelete  Operation = "delete"
)

// NotFoundError は存在しない ID を対象とした操作のエラーです。
// errors.Is(err, ErrWorkerNotFound) が成立します。
type NotFoundError struct {
	ID int64
	Op Operation
}

func (e *NotFoundError) Error() string {
	switch e.Op {
	case OpReplace:
		return fmt.Sprintf("Worker with ID %d not found. Unable to update non-existent record.", e.ID)
	case OpDelete:
		return fmt.Sprintf("Worker with ID %d not found. No record to delete.", e.ID)
	default:
		return fmt.Sprintf("Worker with ID %d not found. Please check the ID and try again.", e.ID)
	}
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrWorkerNotFound
}

func notFound(err error, id int64, op Operation) error {
	if errors.Is(err, ErrWorkerNotFound) {
		return &NotFoundError{ID: id, Op: op}
	}
	return err
}
