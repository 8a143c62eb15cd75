package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/models"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	ProjectID   *uuid.UUID `json:"projectId"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
}

// UpdateTaskRequest has patch semantics: a nil field keeps the stored value.
// The Clear flags null out the matching optional field and may not be combined with a new value for it.
type UpdateTaskRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	Priority      *string    `json:"priority"`
	DueDate       *time.Time `json:"dueDate"`
	ProjectID     *uuid.UUID `json:"projectId"`
	AssigneeID    *uuid.UUID `json:"assigneeId"`
	ClearDueDate  bool       `json:"clearDueDate"`
	ClearProject  bool       `json:"clearProjectId"`
	ClearAssignee bool       `json:"clearAssigneeId"`
}

type AssignTaskRequest struct {
	AssigneeID uuid.UUID `json:"assigneeId" binding:"required"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type TaskResponse struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Description  *string             `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      *time.Time          `json:"dueDate"`
	ProjectID    *uuid.UUID          `json:"projectId"`
	ProjectName  *string             `json:"projectName"`
	AssigneeID   *uuid.UUID          `json:"assigneeId"`
	AssigneeName *string             `json:"assigneeName"`
	CreatorID    uuid.UUID           `json:"creatorId"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type TaskStats struct {
	Total      int64 `json:"total" db:"total"`
	Todo       int64 `json:"todo" db:"todo"`
	InProgress int64 `json:"inProgress" db:"in_progress"`
	Done       int64 `json:"done" db:"done"`
	Overdue    int64 `json:"overdue" db:"overdue"`
}
