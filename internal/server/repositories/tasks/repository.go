// Package tasks declares the server-side repository contract for tasks.
package tasks

import (
	"context"

	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
)

// Repository defines persistence operations for tasks. Read and write
// operations are owner-scoped: a row belonging to another user behaves as
// if it did not exist.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, userID, id int64, status models.TaskStatus) error
	Delete(ctx context.Context, userID, id int64) error
}
