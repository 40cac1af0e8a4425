package task

import (
	"context"

	"tasks-api/internal/model"
)

// TaskRepository is the record store behind the service. Update and Delete
// return model.ErrNotFound when no record has the given id.
type TaskRepository interface {
	Select(ctx context.Context, q Query) ([]model.Task, error)
	Insert(ctx context.Context, t model.Task) error
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, id string) error
}
