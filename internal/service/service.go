package service

import (
	"context"
	"errors"
)

// Service is the remote task API the store depends on.
// Every backend (REST, Google Tasks, test fakes) implements it.
// The store never imports a backend SDK directly.
type Service interface {
	// List returns every task in backend order. Statuses are returned as the
	// backend stores them, legacy values included.
	List(ctx context.Context) ([]Task, error)

	// Create inserts a task and returns it with its backend-assigned ID.
	Create(ctx context.Context, draft Draft) (Task, error)

	// Update applies a partial change to the task with the given ID.
	// Returns ErrNotFound if the backend does not know the ID.
	Update(ctx context.Context, id string, changes Changes) (Task, error)

	// Delete removes the task with the given ID.
	// Returns ErrNotFound if the backend does not know the ID.
	Delete(ctx context.Context, id string) error
}

var (
	// ErrTransport indicates the remote call failed or returned a non-success status.
	ErrTransport = errors.New("remote request failed")

	// ErrDuplicateTitle indicates a title collides with an existing task.
	ErrDuplicateTitle = errors.New("a task with this title already exists")

	// ErrNotFound indicates the backend does not recognize the task ID.
	ErrNotFound = errors.New("task not found")
)
