// This file implements TaskService: owner-scoped CRUD over tasks.
package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
	"github.com/Francortiz-137/taskflow-backend/internal/server/repositories/repomanager"
)

// TaskService manages a user's tasks. Every operation is scoped to the
// calling user; other users' tasks are indistinguishable from absent ones.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create stores a new task for userID. Status defaults to PENDING.
func (s *TaskService) Create(ctx context.Context, userID int64, title, description string, dueDate *time.Time) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.ErrorValidation
	}
	repo := s.repomanager.Tasks(s.db)
	return repo.Create(ctx, &models.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      models.TaskPending,
		DueDate:     dueDate,
	})
}

func (s *TaskService) Get(ctx context.Context, userID, id int64) (*models.Task, error) {
	return s.repomanager.Tasks(s.db).GetByID(ctx, userID, id)
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]*models.Task, error) {
	return s.repomanager.Tasks(s.db).ListByUser(ctx, userID)
}

// Update replaces the mutable fields of a task the user owns.
func (s *TaskService) Update(ctx context.Context, userID, id int64, title, description string, status models.TaskStatus, dueDate *time.Time) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.ErrorValidation
	}
	if _, ok := models.ParseTaskStatus(string(status)); !ok {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Tasks(s.db)
	task := &models.Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
		DueDate:     dueDate,
	}
	if err := repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, userID, id)
}

// UpdateStatus moves a task the user owns to the given status.
func (s *TaskService) UpdateStatus(ctx context.Context, userID, id int64, status models.TaskStatus) (*models.Task, error) {
	if _, ok := models.ParseTaskStatus(string(status)); !ok {
		return nil, common.ErrorValidation
	}
	repo := s.repomanager.Tasks(s.db)
	if err := repo.UpdateStatus(ctx, userID, id, status); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, userID, id)
}

func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	return s.repomanager.Tasks(s.db).Delete(ctx, userID, id)
}
