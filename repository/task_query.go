package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"centralTodoPlanner/models"
)

func (r *TaskRepository) scanTaskRows(rows *sql.Rows) ([]models.Task, error) {
	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByAssignee returns all tasks assigned to a username ordered by
// start_date, id.
func (r *TaskRepository) ListByAssignee(ctx context.Context, username string) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE assigned_to = ? ORDER BY start_date, id`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanTaskRows(rows)
}

// ListAll returns every task in the table ordered by start_date, id.
// Admin dashboards recompute aggregates from a full scan each render; the
// data volume (personal task lists) keeps this acceptable.
func (r *TaskRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY start_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanTaskRows(rows)
}

// ListBySeries returns every row of one recurring series ordered by
// start_date, id (seed first).
func (r *TaskRepository) ListBySeries(ctx context.Context, seriesID string) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE series_id = ? ORDER BY start_date, id`, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanTaskRows(rows)
}

// CreateSeries inserts a seed task and its expanded follow-up rows in a
// single transaction, so a failure leaves no partial series behind. Returns
// all inserted rows (seed first) with their generated IDs.
func (r *TaskRepository) CreateSeries(ctx context.Context, seed *models.Task, followups []models.Task) ([]models.Task, error) {
	if seed == nil {
		return nil, errors.New("seed task is nil")
	}
	if seed.SeriesID == nil || *seed.SeriesID == "" {
		return nil, errors.New("seed task has no series id")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	if _, err := insertTask(ctx, tx, seed); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	for i := range followups {
		if _, err := insertTask(ctx, tx, &followups[i]); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.ListBySeries(ctx, *seed.SeriesID)
}
