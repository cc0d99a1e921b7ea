package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"centralTodoPlanner/models"
)

// TaskRepository is the core repository for Task entities.
// It handles basic CRUD operations; list and series queries live in
// task_query.go.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, task, assigned_to, given_by, priority, status, start_date, end_date, progress, comments, admin_comments, recurrence, recurrence_until, series_id, created_at, updated_at, category, tags, estimated_hours, actual_hours`

// rowScanner abstracts *sql.Row and *sql.Rows for scanTask.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one tasks row into a typed model, parsing the TEXT date
// columns at the datastore boundary.
func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var priority, status, recurrence string
	var startDate, endDate string
	var recurrenceUntil, seriesID sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.AssignedTo, &t.GivenBy, &priority, &status,
		&startDate, &endDate, &t.Progress, &t.Comments, &t.AdminComments,
		&recurrence, &recurrenceUntil, &seriesID, &t.CreatedAt, &t.UpdatedAt,
		&t.Category, &t.Tags, &t.EstimatedHours, &t.ActualHours)
	if err != nil {
		return nil, err
	}
	t.Priority = models.Priority(priority)
	t.Status = models.Status(status)
	t.Recurrence = models.Recurrence(recurrence)
	if t.StartDate, err = parseDate(startDate); err != nil {
		return nil, fmt.Errorf("task %d start_date: %w", t.ID, err)
	}
	if t.EndDate, err = parseDate(endDate); err != nil {
		return nil, fmt.Errorf("task %d end_date: %w", t.ID, err)
	}
	if recurrenceUntil.Valid && recurrenceUntil.String != "" {
		until, err := parseDate(recurrenceUntil.String)
		if err != nil {
			return nil, fmt.Errorf("task %d recurrence_until: %w", t.ID, err)
		}
		t.RecurrenceUntil = &until
	}
	if seriesID.Valid && seriesID.String != "" {
		v := seriesID.String
		t.SeriesID = &v
	}
	t.Progress = models.ClampProgress(t.Progress)
	return &t, nil
}

func parseDate(s string) (time.Time, error) {
	// Dates are stored as YYYY-MM-DD; tolerate a trailing time component
	// left by older writers.
	if len(s) > len(models.DateFormat) {
		s = s[:len(models.DateFormat)]
	}
	return time.Parse(models.DateFormat, s)
}

func formatDate(t time.Time) string {
	return t.Format(models.DateFormat)
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// execer abstracts *sql.DB and *sql.Tx for insertTask.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTask(ctx context.Context, e execer, t *models.Task) (int64, error) {
	res, err := e.ExecContext(ctx, `INSERT INTO tasks
(task, assigned_to, given_by, priority, status, start_date, end_date, progress, comments, admin_comments, recurrence, recurrence_until, series_id, category, tags, estimated_hours, actual_hours)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.Title, t.AssignedTo, t.GivenBy, string(t.Priority), string(t.Status),
		formatDate(t.StartDate), formatDate(t.EndDate), models.ClampProgress(t.Progress),
		t.Comments, t.AdminComments, string(t.Recurrence), nullableDate(t.RecurrenceUntil),
		nullableString(t.SeriesID), t.Category, t.Tags, t.EstimatedHours, t.ActualHours)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Create inserts a new task. Status defaults to 'Not Started' and priority to
// 'Medium' if empty.
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if t == nil {
		return nil, errors.New("task is nil")
	}
	if t.Status == "" {
		t.Status = models.StatusNotStarted
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Recurrence == "" {
		t.Recurrence = models.RecurrenceNone
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Insert and then query back to capture created_at/updated_at.
	id, err := insertTask(ctx, r.db, t)
	if err != nil {
		return nil, err
	}
	t2, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t2 == nil {
		return nil, fmt.Errorf("created task not found: id=%d", id)
	}
	return t2, nil
}

// GetByID fetches a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// Update rewrites the mutable fields of a task and bumps updated_at.
func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	if t == nil {
		return errors.New("task is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET
task = ?, given_by = ?, priority = ?, status = ?, start_date = ?, end_date = ?, progress = ?, comments = ?, category = ?, tags = ?, estimated_hours = ?, actual_hours = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`,
		t.Title, t.GivenBy, string(t.Priority), string(t.Status),
		formatDate(t.StartDate), formatDate(t.EndDate), models.ClampProgress(t.Progress),
		t.Comments, t.Category, t.Tags, t.EstimatedHours, t.ActualHours, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateAdminComments sets the admin note on a single task.
func (r *TaskRepository) UpdateAdminComments(ctx context.Context, id int64, note string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET admin_comments = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, note, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateAdminCommentsBySeries broadcasts an admin note to every row of a
// recurring series. Returns the number of rows touched.
func (r *TaskRepository) UpdateAdminCommentsBySeries(ctx context.Context, seriesID, note string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET admin_comments = ?, updated_at = CURRENT_TIMESTAMP WHERE series_id = ?`, note, seriesID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a task by ID.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}
