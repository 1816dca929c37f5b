// Package attachments declares the server-side repository contract for
// task attachments.
package attachments

import (
	"context"

	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
)

// Repository defines persistence operations for attachments. Reads and
// writes are owner-scoped.
type Repository interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	GetByID(ctx context.Context, userID int64, id string) (*models.Attachment, error)
	MarkUploaded(ctx context.Context, userID int64, id string) error
}
