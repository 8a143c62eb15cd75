package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/models"
)

const taskStatsQuery = `
	SELECT COUNT(*) AS total,
	       COUNT(CASE WHEN status = ? THEN 1 END) AS todo,
	       COUNT(CASE WHEN status = ? THEN 1 END) AS in_progress,
	       COUNT(CASE WHEN status = ? THEN 1 END) AS done,
	       COUNT(CASE WHEN due_date IS NOT NULL AND due_date < ? AND status <> ? THEN 1 END) AS overdue
	FROM tasks
	WHERE creator_id = ? OR assignee_id = ?
`

// StatsRepository runs read-only reporting queries through sqlx.
type StatsRepository struct{}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{}
}

// ForUser counts tasks the user created or is assigned to, grouped by status.
func (r *StatsRepository) ForUser(ctx context.Context, q sqlx.QueryerContext, userID uuid.UUID, now time.Time) (dto.TaskStats, error) {
	var stats dto.TaskStats

	query := sqlx.Rebind(sqlx.BindType(driverOf(q)), taskStatsQuery)
	err := sqlx.GetContext(ctx, q, &stats, query,
		string(models.StatusTodo),
		string(models.StatusInProgress),
		string(models.StatusDone),
		now,
		string(models.StatusDone),
		userID,
		userID,
	)
	if err != nil {
		return dto.TaskStats{}, fmt.Errorf("task stats: %w", err)
	}
	return stats, nil
}

func driverOf(q sqlx.QueryerContext) string {
	if db, ok := q.(interface{ DriverName() string }); ok {
		return db.DriverName()
	}
	return ""
}
