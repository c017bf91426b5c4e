// Package service defines the backend-agnostic interface for task storage.
package service

import (
	"context"
	"errors"

	"anto/internal/task"
	"anto/internal/tasklist"
)

// Service is a durable task store.
// Commands never import a backend package directly.
type Service interface {
	tasklist.Storage

	// Load returns the stored tasks in list order.
	// It is called once per session, before any mutation.
	Load(ctx context.Context) ([]*task.Task, error)

	// Close releases any resources held by the backend.
	Close() error
}

// ErrAuth indicates that the backend's credentials are missing or rejected.
var ErrAuth = errors.New("not authorized (run: anto login)")
