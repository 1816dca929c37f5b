package models

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus returns the TaskStatus matching s, or false for unknown
// values.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskPending:
		return TaskPending, true
	case TaskInProgress:
		return TaskInProgress, true
	case TaskCompleted:
		return TaskCompleted, true
	default:
		return "", false
	}
}

type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      TaskStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
