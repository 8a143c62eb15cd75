package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/apperror"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/pagination"
	"github.com/monocle-dev/taskboard/internal/repository"
	"gorm.io/gorm"
)

type ProjectService struct {
	db     *gorm.DB
	access access
	log    *slog.Logger
}

func NewProjectService(db *gorm.DB, log *slog.Logger) *ProjectService {
	return &ProjectService{db: db, access: newAccess(), log: log}
}

func (s *ProjectService) Create(ctx context.Context, callerID uuid.UUID, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Field("name", "Name must not be blank")
	}

	return inTx(ctx, s.db, func(tx *gorm.DB) (*dto.ProjectResponse, error) {
		return s.access.projects.Create(tx, callerID, name, trimOptional(req.Description))
	})
}

func (s *ProjectService) Get(ctx context.Context, callerID, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (*dto.ProjectResponse, error) {
		return s.access.project(tx, projectID, callerID)
	})
}

// Update changes the fields present in req. Owners and members may edit a project.
func (s *ProjectService) Update(ctx context.Context, callerID, projectID uuid.UUID, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (*dto.ProjectResponse, error) {
		current, err := s.access.project(tx, projectID, callerID)
		if err != nil {
			return nil, err
		}

		name := current.Name
		if req.Name != nil {
			name = strings.TrimSpace(*req.Name)
			if name == "" {
				return nil, apperror.Field("name", "Name must not be blank")
			}
		}

		description := current.Description
		if req.Description != nil {
			description = trimOptional(req.Description)
		}

		updated, err := s.access.projects.Update(tx, projectID, name, description)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, apperror.NotFound("project", projectID)
		}
		return updated, nil
	})
}

// Delete removes a project. Only the owner may delete; memberships are removed and the
// project's tasks are kept without a project.
func (s *ProjectService) Delete(ctx context.Context, callerID, projectID uuid.UUID) error {
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		if _, err := s.access.ownedProject(tx, projectID, callerID); err != nil {
			return struct{}{}, err
		}

		if _, err := s.access.assignments.DeleteByProject(tx, projectID); err != nil {
			return struct{}{}, err
		}
		if _, err := s.access.projects.DetachTasks(tx, projectID); err != nil {
			return struct{}{}, err
		}

		deleted, err := s.access.projects.Delete(tx, projectID)
		if err != nil {
			return struct{}{}, err
		}
		if !deleted {
			return struct{}{}, apperror.NotFound("project", projectID)
		}
		return struct{}{}, nil
	})
	if err == nil {
		s.log.Info("project deleted", "project_id", projectID, "user_id", callerID)
	}
	return err
}

func (s *ProjectService) ListOwned(ctx context.Context, callerID uuid.UUID, query string, page pagination.Request) (pagination.Page[dto.ProjectResponse], error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (pagination.Page[dto.ProjectResponse], error) {
		return s.access.projects.FindAllByOwner(tx, callerID, query, page)
	})
}

func (s *ProjectService) ListAssigned(ctx context.Context, callerID uuid.UUID, query string, page pagination.Request) (pagination.Page[dto.ProjectResponse], error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (pagination.Page[dto.ProjectResponse], error) {
		return s.access.projects.FindAllByMember(tx, callerID, query, page)
	})
}

// AssignUser makes userID a member of the project. Assigning a user twice fails with
// an AlreadyAssigned error.
func (s *ProjectService) AssignUser(ctx context.Context, callerID, projectID, userID uuid.UUID) (*dto.AssignmentResponse, error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (*dto.AssignmentResponse, error) {
		project, err := s.access.project(tx, projectID, callerID)
		if err != nil {
			return nil, err
		}

		exists, err := s.access.users.Exists(tx, userID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperror.NotFound("user", userID)
		}

		if project.OwnerID == userID {
			return nil, apperror.Field("userId", "The project owner is already a member")
		}

		assigned, err := s.access.assignments.IsUserAssignedToProject(tx, projectID, userID)
		if err != nil {
			return nil, err
		}
		if assigned {
			return nil, errAlreadyAssigned()
		}

		assignment, err := s.access.assignments.Create(tx, projectID, userID, callerID)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errAlreadyAssigned()
		}
		return assignment, err
	})
}

func errAlreadyAssigned() error {
	return apperror.AlreadyAssigned("User is already assigned to this project")
}

func (s *ProjectService) RemoveUser(ctx context.Context, callerID, projectID, userID uuid.UUID) error {
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		if _, err := s.access.project(tx, projectID, callerID); err != nil {
			return struct{}{}, err
		}

		removed, err := s.access.assignments.Remove(tx, projectID, userID)
		if err != nil {
			return struct{}{}, err
		}
		if !removed {
			return struct{}{}, apperror.NotFound("assignment", userID)
		}
		return struct{}{}, nil
	})
	return err
}

func (s *ProjectService) ListMemberIDs(ctx context.Context, callerID, projectID uuid.UUID) ([]uuid.UUID, error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) ([]uuid.UUID, error) {
		if _, err := s.access.project(tx, projectID, callerID); err != nil {
			return nil, err
		}
		return s.access.assignments.FindUserIDs(tx, projectID)
	})
}

func (s *ProjectService) ListMembers(ctx context.Context, callerID, projectID uuid.UUID, page pagination.Request) (pagination.Page[dto.AssignmentResponse], error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (pagination.Page[dto.AssignmentResponse], error) {
		if _, err := s.access.project(tx, projectID, callerID); err != nil {
			return pagination.Page[dto.AssignmentResponse]{}, err
		}
		return s.access.assignments.FindAllByProject(tx, projectID, page)
	})
}

func (s *ProjectService) IsUserAssignedToProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (bool, error) {
		return s.access.assignments.IsUserAssignedToProject(tx, projectID, userID)
	})
}

// trimOptional trims s and maps a blank result to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
