package tasks

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

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description, task.Status, task.DueDate).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Task, error) {
	query := `
		SELECT id, user_id, title, description, status, due_date, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Status, &task.DueDate, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	query := `
		SELECT id, user_id, title, description, status, due_date, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task := &models.Task{}
		err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Status, &task.DueDate, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, due_date = $4, updated_at = now()
		WHERE id = $5 AND user_id = $6
	`
	return r.execOwned(ctx, query,
		task.Title, task.Description, task.Status, task.DueDate, task.ID, task.UserID)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, userID, id int64, status models.TaskStatus) error {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3
	`
	return r.execOwned(ctx, query, status, id, userID)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	return r.execOwned(ctx, query, id, userID)
}

// execOwned runs an owner-scoped mutation and maps "no rows touched" to
// common.ErrorNotFound.
func (r *PostgresRepository) execOwned(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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
