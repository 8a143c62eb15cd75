package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/pagination"
	"gorm.io/gorm"
)

const taskColumns = `tasks.id, tasks.title, tasks.description, tasks.status, tasks.priority, tasks.due_date,
	tasks.project_id, projects.name AS project_name,
	tasks.assignee_id, assignees.display_name AS assignee_name,
	tasks.creator_id, tasks.created_at, tasks.updated_at`

// TaskValues is a fully resolved task. Update writes every field of it.
type TaskValues struct {
	Title       string
	Description *string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	ProjectID   *uuid.UUID
	AssigneeID  *uuid.UUID
}

// TaskFilter narrows task listings. Zero fields are ignored.
type TaskFilter struct {
	ProjectID  *uuid.UUID
	CreatorID  *uuid.UUID
	AssigneeID *uuid.UUID
	// ParticipantID matches tasks the user created or is assigned to.
	ParticipantID *uuid.UUID
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Query         string
}

func (f TaskFilter) scope(db *gorm.DB) *gorm.DB {
	if f.ProjectID != nil {
		db = db.Where("tasks.project_id = ?", *f.ProjectID)
	}
	if f.CreatorID != nil {
		db = db.Where("tasks.creator_id = ?", *f.CreatorID)
	}
	if f.AssigneeID != nil {
		db = db.Where("tasks.assignee_id = ?", *f.AssigneeID)
	}
	if f.ParticipantID != nil {
		db = db.Where("(tasks.creator_id = ? OR tasks.assignee_id = ?)", *f.ParticipantID, *f.ParticipantID)
	}
	if f.Status != nil {
		db = db.Where("tasks.status = ?", string(*f.Status))
	}
	if f.Priority != nil {
		db = db.Where("tasks.priority = ?", string(*f.Priority))
	}
	return pagination.Search(f.Query, "tasks.title", "tasks.description")(db)
}

type TaskRepository struct{}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{}
}

func (r *TaskRepository) Create(tx *gorm.DB, creatorID uuid.UUID, v TaskValues) (*dto.TaskResponse, error) {
	task := models.Task{
		Title:       v.Title,
		Description: v.Description,
		Status:      v.Status,
		Priority:    v.Priority,
		DueDate:     v.DueDate,
		ProjectID:   v.ProjectID,
		AssigneeID:  v.AssigneeID,
		CreatorID:   creatorID,
	}

	if err := tx.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return r.FindByID(tx, task.ID)
}

func (r *TaskRepository) FindByID(tx *gorm.DB, id uuid.UUID) (*dto.TaskResponse, error) {
	var out dto.TaskResponse

	res := selectTasks(tx).Where("tasks.id = ?", id).Limit(1).Scan(&out)
	if res.Error != nil {
		return nil, fmt.Errorf("find task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

// Update overwrites every column with v. It returns nil when no task matched.
func (r *TaskRepository) Update(tx *gorm.DB, id uuid.UUID, v TaskValues) (*dto.TaskResponse, error) {
	res := tx.Model(&models.Task{}).Where("id = ?", id).Updates(map[string]any{
		"title":       v.Title,
		"description": v.Description,
		"status":      string(v.Status),
		"priority":    string(v.Priority),
		"due_date":    v.DueDate,
		"project_id":  v.ProjectID,
		"assignee_id": v.AssigneeID,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(tx, id)
}

func (r *TaskRepository) Delete(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return false, fmt.Errorf("delete task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *TaskRepository) FindAllByProject(tx *gorm.DB, projectID uuid.UUID, page pagination.Request) (pagination.Page[dto.TaskResponse], error) {
	return r.FindAll(tx, TaskFilter{ProjectID: &projectID}, page)
}

func (r *TaskRepository) FindAllByCreator(tx *gorm.DB, creatorID uuid.UUID, page pagination.Request) (pagination.Page[dto.TaskResponse], error) {
	return r.FindAll(tx, TaskFilter{CreatorID: &creatorID}, page)
}

func (r *TaskRepository) FindAllByAssignee(tx *gorm.DB, assigneeID uuid.UUID, query string, page pagination.Request) (pagination.Page[dto.TaskResponse], error) {
	return r.FindAll(tx, TaskFilter{AssigneeID: &assigneeID, Query: query}, page)
}

func (r *TaskRepository) FindAllForUser(tx *gorm.DB, userID uuid.UUID, f TaskFilter, page pagination.Request) (pagination.Page[dto.TaskResponse], error) {
	f.ParticipantID = &userID
	return r.FindAll(tx, f, page)
}

// FindAll pages through tasks matching f, newest first.
func (r *TaskRepository) FindAll(tx *gorm.DB, f TaskFilter, page pagination.Request) (pagination.Page[dto.TaskResponse], error) {
	var total int64
	if err := tx.Table("tasks").Scopes(f.scope).Count(&total).Error; err != nil {
		return pagination.Page[dto.TaskResponse]{}, fmt.Errorf("count tasks: %w", err)
	}

	var items []dto.TaskResponse
	err := selectTasks(tx).
		Scopes(f.scope, pagination.Scope(page)).
		Order(newestFirst("tasks")).
		Scan(&items).Error
	if err != nil {
		return pagination.Page[dto.TaskResponse]{}, fmt.Errorf("list tasks: %w", err)
	}

	return pagination.New(items, total, page), nil
}

func selectTasks(tx *gorm.DB) *gorm.DB {
	return tx.Table("tasks").
		Select(taskColumns).
		Joins("LEFT JOIN projects ON projects.id = tasks.project_id").
		Joins("LEFT JOIN users AS assignees ON assignees.id = tasks.assignee_id")
}
