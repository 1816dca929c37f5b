// Package users declares the server-side repository contract for user
// accounts.
package users

import (
	"context"

	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
)

// Repository defines persistence operations for users.
type Repository interface {
	// Create inserts a new user and returns it with its assigned id.
	// A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email. Absent users yield
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by id. Absent users yield common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
