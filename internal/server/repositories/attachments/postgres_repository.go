package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	"github.com/Francortiz-137/taskflow-backend/internal/dbx"
	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	query := `
		INSERT INTO attachments (id, task_id, user_id, file_name, storage_key, upload_status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		attachment.ID, attachment.TaskID, attachment.UserID,
		attachment.FileName, attachment.StorageKey, attachment.UploadStatus)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID int64, id string) (*models.Attachment, error) {
	query := `
		SELECT id, task_id, user_id, file_name, storage_key, upload_status, created_at
		FROM attachments
		WHERE id = $1 AND user_id = $2
	`
	attachment := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&attachment.ID, &attachment.TaskID, &attachment.UserID,
			&attachment.FileName, &attachment.StorageKey, &attachment.UploadStatus,
			&attachment.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return attachment, nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, userID int64, id string) error {
	query := `
		UPDATE attachments
		SET upload_status = 'uploaded'
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
