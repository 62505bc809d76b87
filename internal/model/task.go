package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStore defines persistence operations for tasks.
//
// All lookups are scoped by owner: a task owned by another user is reported
// as ErrNotFound.
type TaskStore interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]Task, error)
	Update(ctx context.Context, task Task) (Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Task represents a stored task entity.
type Task struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows List results. Nil fields are not applied.
type TaskFilter struct {
	Completed *bool
}

// CreateTaskParams contains parameters to create a task.
type CreateTaskParams struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
}

// UpdateTaskParams contains parameters to update a task. Nil values keep
// the stored value.
type UpdateTaskParams struct {
	OwnerID     uuid.UUID
	ID          uuid.UUID
	Title       *string
	Description *string
	Completed   *bool
}
