package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusTodo:
		return StatusTodo, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusDone:
		return StatusDone, true
	default:
		return "", false
	}
}

func ParseTaskPriority(s string) (TaskPriority, bool) {
	switch TaskPriority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	default:
		return "", false
	}
}

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description *string
	Status      TaskStatus   `gorm:"type:varchar(20);not null;index"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null"`
	DueDate     *time.Time
	ProjectID   *uuid.UUID `gorm:"type:uuid;index"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
