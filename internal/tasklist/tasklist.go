// Package tasklist holds the session's ordered tasks and keeps them in step
// with durable storage.
//
// Every mutating method persists first and applies the change in memory only
// after storage succeeds, so a failed call leaves the list untouched and a
// crash between the two steps leaves storage ahead of memory.
package tasklist

import (
	"context"
	"fmt"
	"strings"

	"anto/internal/task"
)

// TaskList is the in-memory view of the user's tasks.
// It is not safe for concurrent use.
type TaskList struct {
	tasks   []*task.Task
	storage Storage
}

// New creates a TaskList over the tasks already held by storage.
func New(tasks []*task.Task, storage Storage) *TaskList {
	return &TaskList{
		tasks:   tasks,
		storage: storage,
	}
}

// Add persists t and appends it as the last task.
func (l *TaskList) Add(ctx context.Context, t *task.Task) error {
	if err := l.storage.Append(ctx, t); err != nil {
		return &StorageError{Op: "append", Index: -1, Err: err}
	}
	l.tasks = append(l.tasks, t)
	return nil
}

// Len returns the number of tasks.
func (l *TaskList) Len() int {
	return len(l.tasks)
}

// MarkDone marks the task at index as completed.
func (l *TaskList) MarkDone(ctx context.Context, index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if err := l.storage.MarkDone(ctx, index); err != nil {
		return &StorageError{Op: "mark", Index: index, Err: err}
	}
	l.tasks[index].MarkDone()
	return nil
}

// Unmark marks the task at index as not completed.
func (l *TaskList) Unmark(ctx context.Context, index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if err := l.storage.Unmark(ctx, index); err != nil {
		return &StorageError{Op: "unmark", Index: index, Err: err}
	}
	l.tasks[index].Unmark()
	return nil
}

// Delete removes the task at index and returns it.
// Tasks after index move down by one.
func (l *TaskList) Delete(ctx context.Context, index int) (*task.Task, error) {
	if err := l.checkIndex(index); err != nil {
		return nil, err
	}
	if err := l.storage.Delete(ctx, index); err != nil {
		return nil, &StorageError{Op: "delete", Index: index, Err: err}
	}
	removed := l.tasks[index]
	l.tasks = append(l.tasks[:index], l.tasks[index+1:]...)
	return removed, nil
}

// Find returns the tasks whose description contains keyword, in list order.
// Matching is case-sensitive.
func (l *TaskList) Find(keyword string) []*task.Task {
	found := make([]*task.Task, 0)
	for _, t := range l.tasks {
		if strings.Contains(t.Description, keyword) {
			found = append(found, t)
		}
	}
	return found
}

// IsEmpty reports whether the list has no tasks.
func (l *TaskList) IsEmpty() bool {
	return len(l.tasks) == 0
}

// Tasks returns the backing slice. It is not a copy and is invalidated by
// the next mutation.
func (l *TaskList) Tasks() []*task.Task {
	return l.tasks
}

func (l *TaskList) checkIndex(index int) error {
	if index < 0 || index >= len(l.tasks) {
		return fmt.Errorf("%w: %d (have %d tasks)", ErrIndexOutOfRange, index, len(l.tasks))
	}
	return nil
}
