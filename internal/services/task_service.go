package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/monocle-dev/taskboard/internal/apperror"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/pagination"
	"github.com/monocle-dev/taskboard/internal/repository"
	"gorm.io/gorm"
)

// TaskQuery holds the raw listing filters of GET /tasks. Empty strings are ignored.
type TaskQuery struct {
	Status   string
	Priority string
	Query    string
}

type TaskService struct {
	db     *gorm.DB
	stats  *sqlx.DB
	tasks  *repository.TaskRepository
	report *repository.StatsRepository
	access access
	log    *slog.Logger
	now    func() time.Time
}

func NewTaskService(db *gorm.DB, stats *sqlx.DB, log *slog.Logger) *TaskService {
	return &TaskService{
		db:     db,
		stats:  stats,
		tasks:  repository.NewTaskRepository(),
		report: repository.NewStatsRepository(),
		access: newAccess(),
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func parseStatus(raw string) (models.TaskStatus, error) {
	status, ok := models.ParseTaskStatus(raw)
	if !ok {
		return "", apperror.Field("status", "Status must be one of TODO, IN_PROGRESS, DONE")
	}
	return status, nil
}

func parsePriority(raw string) (models.TaskPriority, error) {
	priority, ok := models.ParseTaskPriority(raw)
	if !ok {
		return "", apperror.Field("priority", "Priority must be one of LOW, MEDIUM, HIGH")
	}
	return priority, nil
}

func utcOptional(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Create adds a task owned by callerID. A non-nil projectID takes precedence over the
// project named in the request body. Without an explicit assignee the caller is assigned.
func (s *TaskService) Create(ctx context.Context, callerID uuid.UUID, req dto.CreateTaskRequest, projectID *uuid.UUID) (*dto.TaskResponse, error) {
	values := repository.TaskValues{
		Title:       strings.TrimSpace(req.Title),
		Description: trimOptional(req.Description),
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		DueDate:     utcOptional(req.DueDate),
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
	}
	if projectID != nil {
		values.ProjectID = projectID
	}

	if values.Title == "" {
		return nil, apperror.Field("title", "Title must not be blank")
	}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		values.Status = status
	}
	if req.Priority != nil {
		priority, err := parsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		values.Priority = priority
	}

	task, err := inTx(ctx, s.db, func(tx *gorm.DB) (*dto.TaskResponse, error) {
		if values.ProjectID != nil {
			if _, err := s.access.project(tx, *values.ProjectID, callerID); err != nil {
				return nil, err
			}
		}

		if values.AssigneeID == nil {
			values.AssigneeID = &callerID
		} else if err := s.access.assignee(tx, values.ProjectID, *values.AssigneeID); err != nil {
			return nil, err
		}

		return s.tasks.Create(tx, callerID, values)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("task created", "task_id", task.ID, "user_id", callerID)
	return task, nil
}

// visibleTask loads a task the caller is allowed to see.
func (s *TaskService) visibleTask(tx *gorm.DB, callerID, taskID uuid.UUID) (*dto.TaskResponse, error) {
	task, err := s.tasks.FindByID(tx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperror.NotFound("task", taskID)
	}
	if err := s.access.task(tx, task, callerID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, callerID, taskID uuid.UUID) (*dto.TaskResponse, error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (*dto.TaskResponse, error) {
		return s.visibleTask(tx, callerID, taskID)
	})
}

// checkClears rejects a request that both sets and clears the same field.
func checkClears(req dto.UpdateTaskRequest) error {
	fields := map[string]string{}
	if req.ClearDueDate && req.DueDate != nil {
		fields["dueDate"] = "Cannot set and clear dueDate together"
	}
	if req.ClearProject && req.ProjectID != nil {
		fields["projectId"] = "Cannot set and clear projectId together"
	}
	if req.ClearAssignee && req.AssigneeID != nil {
		fields["assigneeId"] = "Cannot set and clear assigneeId together"
	}
	if len(fields) > 0 {
		return apperror.Validation("Invalid task update", fields)
	}
	return nil
}

func valuesOf(task *dto.TaskResponse) repository.TaskValues {
	return repository.TaskValues{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
	}
}

// Update applies the fields present in req to the stored task and checks the merged result.
func (s *TaskService) Update(ctx context.Context, callerID, taskID uuid.UUID, req dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (*dto.TaskResponse, error) {
		task, err := s.visibleTask(tx, callerID, taskID)
		if err != nil {
			return nil, err
		}

		if err := checkClears(req); err != nil {
			return nil, err
		}

		values := valuesOf(task)

		if req.Title != nil {
			values.Title = strings.TrimSpace(*req.Title)
			if values.Title == "" {
				return nil, apperror.Field("title", "Title must not be blank")
			}
		}
		if req.Description != nil {
			values.Description = trimOptional(req.Description)
		}
		if req.Status != nil {
			if values.Status, err = parseStatus(*req.Status); err != nil {
				return nil, err
			}
		}
		if req.Priority != nil {
			if values.Priority, err = parsePriority(*req.Priority); err != nil {
				return nil, err
			}
		}
		if req.DueDate != nil {
			values.DueDate = utcOptional(req.DueDate)
		}
		if req.ClearDueDate {
			values.DueDate = nil
		}
		if req.ClearProject {
			values.ProjectID = nil
		}
		if req.ClearAssignee {
			values.AssigneeID = nil
		}

		projectChanged := req.ProjectID != nil && (task.ProjectID == nil || *task.ProjectID != *req.ProjectID)
		if projectChanged {
			if _, err := s.access.project(tx, *req.ProjectID, callerID); err != nil {
				return nil, err
			}
			values.ProjectID = req.ProjectID
		}
		if req.AssigneeID != nil {
			values.AssigneeID = req.AssigneeID
		}

		if (projectChanged || req.ClearProject || req.AssigneeID != nil) && values.AssigneeID != nil {
			if err := s.access.assignee(tx, values.ProjectID, *values.AssigneeID); err != nil {
				return nil, err
			}
		}

		updated, err := s.tasks.Update(tx, taskID, values)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, apperror.NotFound("task", taskID)
		}
		return updated, nil
	})
}

// Delete removes a task. Only its creator or the owner of its project may delete it.
func (s *TaskService) Delete(ctx context.Context, callerID, taskID uuid.UUID) error {
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		task, err := s.tasks.FindByID(tx, taskID)
		if err != nil {
			return struct{}{}, err
		}
		if task == nil {
			return struct{}{}, apperror.NotFound("task", taskID)
		}

		allowed := task.CreatorID == callerID
		if !allowed && task.ProjectID != nil {
			project, err := s.access.projects.FindByID(tx, *task.ProjectID)
			if err != nil {
				return struct{}{}, err
			}
			allowed = project != nil && project.OwnerID == callerID
		}
		if !allowed {
			return struct{}{}, apperror.Forbidden("task", taskID)
		}

		deleted, err := s.tasks.Delete(tx, taskID)
		if err != nil {
			return struct{}{}, err
		}
		if !deleted {
			return struct{}{}, apperror.NotFound("task", taskID)
		}
		return struct{}{}, nil
	})
	return err
}

func (s *TaskService) Assign(ctx context.Context, callerID, taskID, assigneeID uuid.UUID) (*dto.TaskResponse, error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (*dto.TaskResponse, error) {
		task, err := s.visibleTask(tx, callerID, taskID)
		if err != nil {
			return nil, err
		}

		if err := s.access.assignee(tx, task.ProjectID, assigneeID); err != nil {
			return nil, err
		}

		values := valuesOf(task)
		values.AssigneeID = &assigneeID
		return s.tasks.Update(tx, taskID, values)
	})
}

// ChangeStatus moves a task to any status, including back to an earlier one.
func (s *TaskService) ChangeStatus(ctx context.Context, callerID, taskID uuid.UUID, raw string) (*dto.TaskResponse, error) {
	status, err := parseStatus(raw)
	if err != nil {
		return nil, err
	}

	return inTx(ctx, s.db, func(tx *gorm.DB) (*dto.TaskResponse, error) {
		task, err := s.visibleTask(tx, callerID, taskID)
		if err != nil {
			return nil, err
		}

		values := valuesOf(task)
		values.Status = status
		return s.tasks.Update(tx, taskID, values)
	})
}

func (s *TaskService) ListByProject(ctx context.Context, callerID, projectID uuid.UUID, page pagination.Request) (pagination.Page[dto.TaskResponse], error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (pagination.Page[dto.TaskResponse], error) {
		if _, err := s.access.project(tx, projectID, callerID); err != nil {
			return pagination.Page[dto.TaskResponse]{}, err
		}
		return s.tasks.FindAllByProject(tx, projectID, page)
	})
}

func (s *TaskService) ListOwned(ctx context.Context, callerID uuid.UUID, page pagination.Request) (pagination.Page[dto.TaskResponse], error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (pagination.Page[dto.TaskResponse], error) {
		return s.tasks.FindAllByCreator(tx, callerID, page)
	})
}

func (s *TaskService) ListAssigned(ctx context.Context, callerID uuid.UUID, query string, page pagination.Request) (pagination.Page[dto.TaskResponse], error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (pagination.Page[dto.TaskResponse], error) {
		return s.tasks.FindAllByAssignee(tx, callerID, query, page)
	})
}

// ListForUser lists tasks the caller created or is assigned to.
func (s *TaskService) ListForUser(ctx context.Context, callerID uuid.UUID, q TaskQuery, page pagination.Request) (pagination.Page[dto.TaskResponse], error) {
	filter := repository.TaskFilter{Query: q.Query}

	if strings.TrimSpace(q.Status) != "" {
		status, err := parseStatus(q.Status)
		if err != nil {
			return pagination.Page[dto.TaskResponse]{}, err
		}
		filter.Status = &status
	}
	if strings.TrimSpace(q.Priority) != "" {
		priority, err := parsePriority(q.Priority)
		if err != nil {
			return pagination.Page[dto.TaskResponse]{}, err
		}
		filter.Priority = &priority
	}

	return inTx(ctx, s.db, func(tx *gorm.DB) (pagination.Page[dto.TaskResponse], error) {
		return s.tasks.FindAllForUser(tx, callerID, filter, page)
	})
}

// Stats counts the caller's tasks by status. Overdue tasks have a past due date and are not done.
func (s *TaskService) Stats(ctx context.Context, callerID uuid.UUID) (dto.TaskStats, error) {
	return s.report.ForUser(ctx, s.stats, callerID, s.now())
}
