package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// UpdateProjectRequest leaves a field unchanged when it is omitted.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ProjectResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	OwnerID         uuid.UUID `json:"ownerId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	TotalTasks      int64     `json:"totalTasks"`
	CompletedTasks  int64     `json:"completedTasks"`
	InProgressTasks int64     `json:"inProgressTasks"`
}

type AssignUserRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

type AssignmentResponse struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"projectId"`
	UserID     uuid.UUID `json:"userId"`
	AssignedAt time.Time `json:"assignedAt"`
	AssignedBy uuid.UUID `json:"assignedBy"`
}
