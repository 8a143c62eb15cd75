package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectAssignment makes a user a member of a project. A user can be assigned to a
// given project at most once.
type ProjectAssignment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_user"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_user;index"`
	AssignedAt time.Time `gorm:"autoCreateTime"`
	AssignedBy uuid.UUID `gorm:"type:uuid;not null"`
}

func (a *ProjectAssignment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
