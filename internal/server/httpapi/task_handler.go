package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
)

// TaskProvider is the slice of TaskService the handler consumes.
type TaskProvider interface {
	Create(ctx context.Context, userID int64, title, description string, dueDate *time.Time) (*models.Task, error)
	Get(ctx context.Context, userID, id int64) (*models.Task, error)
	List(ctx context.Context, userID int64) ([]*models.Task, error)
	Update(ctx context.Context, userID, id int64, title, description string, status models.TaskStatus, dueDate *time.Time) (*models.Task, error)
	UpdateStatus(ctx context.Context, userID, id int64, status models.TaskStatus) (*models.Task, error)
	Delete(ctx context.Context, userID, id int64) error
}

type TaskHandler struct {
	tasks TaskProvider
}

func NewTaskHandler(tasks TaskProvider) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

func taskID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrorValidation
	}
	return id, nil
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), identity.UserID, req.Title, req.Description, req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), identity.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	tasks, err := h.tasks.List(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	result := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), identity.UserID, id, req.Title, req.Description, models.TaskStatus(req.Status), req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.tasks.UpdateStatus(r.Context(), identity.UserID, id, models.TaskStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), identity.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
