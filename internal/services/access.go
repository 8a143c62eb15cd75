package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/apperror"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/repository"
	"gorm.io/gorm"
)

// inTx runs fn in a transaction bound to ctx and hands back its result.
func inTx[T any](ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var out T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = fn(tx)
		return err
	})
	return out, err
}

// access holds the ownership and membership checks shared by the project and task services.
type access struct {
	projects    *repository.ProjectRepository
	assignments *repository.ProjectAssignmentRepository
	users       *repository.UserRepository
}

func newAccess() access {
	return access{
		projects:    repository.NewProjectRepository(),
		assignments: repository.NewProjectAssignmentRepository(),
		users:       repository.NewUserRepository(),
	}
}

func (a access) isParticipant(tx *gorm.DB, project *dto.ProjectResponse, userID uuid.UUID) (bool, error) {
	if project.OwnerID == userID {
		return true, nil
	}
	return a.assignments.IsUserAssignedToProject(tx, project.ID, userID)
}

// project loads the project and requires the user to own it or be assigned to it.
func (a access) project(tx *gorm.DB, projectID, userID uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := a.projects.FindByID(tx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("project", projectID)
	}

	ok, err := a.isParticipant(tx, project, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Forbidden("project", projectID)
	}
	return project, nil
}

func (a access) ownedProject(tx *gorm.DB, projectID, userID uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := a.projects.FindByID(tx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("project", projectID)
	}
	if project.OwnerID != userID {
		return nil, apperror.Forbidden("project", projectID)
	}
	return project, nil
}

// assignee checks that the user exists and, for a task inside a project, that the user
// owns or belongs to that project.
func (a access) assignee(tx *gorm.DB, projectID *uuid.UUID, assigneeID uuid.UUID) error {
	exists, err := a.users.Exists(tx, assigneeID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("user", assigneeID)
	}

	if projectID == nil {
		return nil
	}

	project, err := a.projects.FindByID(tx, *projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NotFound("project", *projectID)
	}

	ok, err := a.isParticipant(tx, project, assigneeID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Forbidden("project", *projectID)
	}
	return nil
}

// task requires the user to be the creator or assignee of the task, or a participant of
// the task's project.
func (a access) task(tx *gorm.DB, task *dto.TaskResponse, userID uuid.UUID) error {
	if task.CreatorID == userID {
		return nil
	}
	if task.AssigneeID != nil && *task.AssigneeID == userID {
		return nil
	}

	if task.ProjectID != nil {
		project, err := a.projects.FindByID(tx, *task.ProjectID)
		if err != nil {
			return err
		}
		if project != nil {
			ok, err := a.isParticipant(tx, project, userID)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}

	return apperror.Forbidden("task", task.ID)
}
