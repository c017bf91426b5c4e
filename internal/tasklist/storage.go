package tasklist

import (
	"context"
	"errors"
	"fmt"

	"anto/internal/task"
)

// Storage is the durable side of a TaskList.
// Every mutation of the in-memory list is first applied here.
type Storage interface {
	// Append persists t after the last stored task.
	Append(ctx context.Context, t *task.Task) error

	// MarkDone persists the completed state of the task at index.
	MarkDone(ctx context.Context, index int) error

	// Unmark persists the open state of the task at index.
	Unmark(ctx context.Context, index int) error

	// Delete removes the task at index; later tasks shift down by one.
	Delete(ctx context.Context, index int) error
}

var (
	// ErrStorage matches any failure reported by the Storage collaborator.
	ErrStorage = errors.New("storage failure")

	// ErrIndexOutOfRange is returned when an index does not address a task.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// StorageError wraps a failure returned by Storage.
// The in-memory list is never mutated when one is returned.
type StorageError struct {
	Op    string
	Index int // -1 for append
	Err   error
}

func (e *StorageError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %d: %v", e.Op, e.Index, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports a match against ErrStorage.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
