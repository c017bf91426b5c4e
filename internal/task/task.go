// Package task defines the to-do item that the task list manages.
package task

import (
	"github.com/google/uuid"
)

// Task is a single to-do item.
type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// New creates an open task with a fresh ID.
func New(description string) *Task {
	return &Task{
		ID:          uuid.NewString(),
		Description: description,
	}
}

// MarkDone marks the task as completed.
func (t *Task) MarkDone() {
	t.Done = true
}

// Unmark marks the task as not completed.
func (t *Task) Unmark() {
	t.Done = false
}

// StatusIcon returns "X" for a completed task and " " otherwise.
func (t *Task) StatusIcon() string {
	if t.Done {
		return "X"
	}
	return " "
}

func (t *Task) String() string {
	return "[" + t.StatusIcon() + "] " + t.Description
}
