// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"anto/internal/task"
)

// ErrInjected is a convenient error for failure injection.
var ErrInjected = errors.New("injected failure")

// FakeStore is an in-memory implementation of service.Service for testing.
// It keeps its own copy of every task so tests can compare the durable view
// against the in-memory list.
type FakeStore struct {
	mu     sync.Mutex
	tasks  []task.Task
	calls  []string
	closed bool

	// Error injection for testing
	LoadErr     error
	AppendErr   error
	MarkDoneErr error
	UnmarkErr   error
	DeleteErr   error
}

// NewFakeStore creates a FakeStore holding the given descriptions as open tasks.
func NewFakeStore(descriptions ...string) *FakeStore {
	f := &FakeStore{}
	for i, d := range descriptions {
		f.tasks = append(f.tasks, task.Task{ID: fmt.Sprintf("t%d", i+1), Description: d})
	}
	return f
}

// Load implements service.Service.
func (f *FakeStore) Load(ctx context.Context) ([]*task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "load")
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	result := make([]*task.Task, len(f.tasks))
	for i := range f.tasks {
		t := f.tasks[i]
		result[i] = &t
	}
	return result, nil
}

// Append implements tasklist.Storage.
func (f *FakeStore) Append(ctx context.Context, t *task.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "append")
	if f.AppendErr != nil {
		return f.AppendErr
	}
	f.tasks = append(f.tasks, *t)
	return nil
}

// MarkDone implements tasklist.Storage.
func (f *FakeStore) MarkDone(ctx context.Context, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("mark %d", index))
	if f.MarkDoneErr != nil {
		return f.MarkDoneErr
	}
	if index < 0 || index >= len(f.tasks) {
		return fmt.Errorf("no task at %d", index)
	}
	f.tasks[index].Done = true
	return nil
}

// Unmark implements tasklist.Storage.
func (f *FakeStore) Unmark(ctx context.Context, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("unmark %d", index))
	if f.UnmarkErr != nil {
		return f.UnmarkErr
	}
	if index < 0 || index >= len(f.tasks) {
		return fmt.Errorf("no task at %d", index)
	}
	f.tasks[index].Done = false
	return nil
}

// Delete implements tasklist.Storage.
func (f *FakeStore) Delete(ctx context.Context, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("delete %d", index))
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if index < 0 || index >= len(f.tasks) {
		return fmt.Errorf("no task at %d", index)
	}
	f.tasks = append(f.tasks[:index], f.tasks[index+1:]...)
	return nil
}

// Close implements service.Service.
func (f *FakeStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Stored returns a snapshot of the durable tasks.
func (f *FakeStore) Stored() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]task.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns the operations received so far, e.g. "append" or "mark 2".
func (f *FakeStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, len(f.calls))
	copy(result, f.calls)
	return result
}

// Closed reports whether Close has been called.
func (f *FakeStore) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
