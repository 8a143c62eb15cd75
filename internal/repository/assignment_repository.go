package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/pagination"
	"gorm.io/gorm"
)

type ProjectAssignmentRepository struct{}

func NewProjectAssignmentRepository() *ProjectAssignmentRepository {
	return &ProjectAssignmentRepository{}
}

// Create inserts a membership row. A second assignment of the same user to the same
// project fails with ErrDuplicate.
func (r *ProjectAssignmentRepository) Create(tx *gorm.DB, projectID, userID, assignedBy uuid.UUID) (*dto.AssignmentResponse, error) {
	assignment := models.ProjectAssignment{
		ProjectID:  projectID,
		UserID:     userID,
		AssignedBy: assignedBy,
	}

	// A failed insert would abort the surrounding postgres transaction, so it runs in a savepoint.
	err := tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(&assignment).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create project assignment: %w", err)
	}

	return toAssignmentResponse(&assignment), nil
}

func (r *ProjectAssignmentRepository) IsUserAssignedToProject(tx *gorm.DB, projectID, userID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.ProjectAssignment{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check project assignment: %w", err)
	}
	return count > 0, nil
}

func (r *ProjectAssignmentRepository) Remove(tx *gorm.DB, projectID, userID uuid.UUID) (bool, error) {
	res := tx.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectAssignment{})
	if res.Error != nil {
		return false, fmt.Errorf("remove project assignment: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ProjectAssignmentRepository) DeleteByProject(tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	res := tx.Where("project_id = ?", projectID).Delete(&models.ProjectAssignment{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete project assignments: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *ProjectAssignmentRepository) FindUserIDs(tx *gorm.DB, projectID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := tx.Model(&models.ProjectAssignment{}).
		Where("project_id = ?", projectID).
		Order("assigned_at ASC, id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list project member ids: %w", err)
	}
	return ids, nil
}

func (r *ProjectAssignmentRepository) FindAllByProject(tx *gorm.DB, projectID uuid.UUID, page pagination.Request) (pagination.Page[dto.AssignmentResponse], error) {
	var total int64
	if err := tx.Model(&models.ProjectAssignment{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return pagination.Page[dto.AssignmentResponse]{}, fmt.Errorf("count project assignments: %w", err)
	}

	var rows []models.ProjectAssignment
	err := tx.Where("project_id = ?", projectID).
		Scopes(pagination.Scope(page)).
		Order("assigned_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return pagination.Page[dto.AssignmentResponse]{}, fmt.Errorf("list project assignments: %w", err)
	}

	items := make([]dto.AssignmentResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *toAssignmentResponse(&rows[i]))
	}

	return pagination.New(items, total, page), nil
}

func toAssignmentResponse(a *models.ProjectAssignment) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ID:         a.ID,
		ProjectID:  a.ProjectID,
		UserID:     a.UserID,
		AssignedAt: a.AssignedAt,
		AssignedBy: a.AssignedBy,
	}
}
