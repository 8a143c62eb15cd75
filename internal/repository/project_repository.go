package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/pagination"
	"gorm.io/gorm"
)

const projectColumns = "projects.id, projects.name, projects.description, projects.owner_id, projects.created_at, projects.updated_at"

const projectAggregates = `COUNT(tasks.id) AS total_tasks,
	COUNT(CASE WHEN tasks.status = ? THEN 1 END) AS completed_tasks,
	COUNT(CASE WHEN tasks.status = ? THEN 1 END) AS in_progress_tasks`

type ProjectRepository struct{}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{}
}

func (r *ProjectRepository) Create(tx *gorm.DB, ownerID uuid.UUID, name string, description *string) (*dto.ProjectResponse, error) {
	project := models.Project{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}

	if err := tx.Create(&project).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return &dto.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}, nil
}

func (r *ProjectRepository) FindByID(tx *gorm.DB, id uuid.UUID) (*dto.ProjectResponse, error) {
	var out dto.ProjectResponse

	res := withTaskAggregates(tx).Where("projects.id = ?", id).Limit(1).Scan(&out)
	if res.Error != nil {
		return nil, fmt.Errorf("find project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

// Update writes name and description in full. It returns nil when no project matched.
func (r *ProjectRepository) Update(tx *gorm.DB, id uuid.UUID, name string, description *string) (*dto.ProjectResponse, error) {
	res := tx.Model(&models.Project{}).Where("id = ?", id).Updates(map[string]any{
		"name":        name,
		"description": description,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(tx, id)
}

func (r *ProjectRepository) Delete(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Where("id = ?", id).Delete(&models.Project{})
	if res.Error != nil {
		return false, fmt.Errorf("delete project: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DetachTasks clears project_id on every task of the project.
func (r *ProjectRepository) DetachTasks(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&models.Task{}).Where("project_id = ?", id).Update("project_id", nil)
	if res.Error != nil {
		return 0, fmt.Errorf("detach project tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *ProjectRepository) FindAllByOwner(tx *gorm.DB, ownerID uuid.UUID, query string, page pagination.Request) (pagination.Page[dto.ProjectResponse], error) {
	owned := func(db *gorm.DB) *gorm.DB {
		return db.Where("projects.owner_id = ?", ownerID)
	}
	return r.findAll(tx, page, owned, pagination.Search(query, "projects.name", "projects.description"))
}

// FindAllByMember lists projects the user is assigned to, excluding ownership.
func (r *ProjectRepository) FindAllByMember(tx *gorm.DB, userID uuid.UUID, query string, page pagination.Request) (pagination.Page[dto.ProjectResponse], error) {
	member := func(db *gorm.DB) *gorm.DB {
		return db.Where("projects.id IN (?)",
			tx.Model(&models.ProjectAssignment{}).Select("project_id").Where("user_id = ?", userID))
	}
	return r.findAll(tx, page, member, pagination.Search(query, "projects.name", "projects.description"))
}

func (r *ProjectRepository) findAll(tx *gorm.DB, page pagination.Request, filters ...func(*gorm.DB) *gorm.DB) (pagination.Page[dto.ProjectResponse], error) {
	var total int64
	if err := tx.Table("projects").Scopes(filters...).Count(&total).Error; err != nil {
		return pagination.Page[dto.ProjectResponse]{}, fmt.Errorf("count projects: %w", err)
	}

	var items []dto.ProjectResponse
	err := withTaskAggregates(tx).
		Scopes(filters...).
		Scopes(pagination.Scope(page)).
		Order(newestFirst("projects")).
		Scan(&items).Error
	if err != nil {
		return pagination.Page[dto.ProjectResponse]{}, fmt.Errorf("list projects: %w", err)
	}

	return pagination.New(items, total, page), nil
}

// withTaskAggregates selects project columns with per-status task counts. The left join
// keeps projects without tasks, whose counts come out as zero.
func withTaskAggregates(tx *gorm.DB) *gorm.DB {
	return tx.Table("projects").
		Select(projectColumns+", "+projectAggregates, string(models.StatusDone), string(models.StatusInProgress)).
		Joins("LEFT JOIN tasks ON tasks.project_id = projects.id").
		Group(projectColumns)
}
