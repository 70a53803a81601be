package repository

import (
	"context"
	"time"

	"assist_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository computes admin counters straight from the tables.
type StatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{TasksByStatus: make(map[string]int64)}
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM tasks),
			(SELECT COUNT(*) FROM boards),
			(SELECT COUNT(*) FROM tasks WHERE created_at >= $1),
			(SELECT COUNT(*) FROM tasks WHERE due_date < $2 AND status <> $3)
	`, today, now, domain.StatusDone).Scan(&stats.TotalUsers, &stats.TotalTasks, &stats.TotalBoards, &stats.TasksToday, &stats.OverdueTasks)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.TasksByStatus[status] = n
	}
	return stats, rows.Err()
}
