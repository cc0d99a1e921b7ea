package models

import "time"

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Status represents the current progress state of a task.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Recurrence is the repeat rule attached to a task.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "None"
	RecurrenceDaily   Recurrence = "Daily"
	RecurrenceWeekly  Recurrence = "Weekly"
	RecurrenceMonthly Recurrence = "Monthly"
)

// DateFormat is the canonical on-disk layout for task dates.
const DateFormat = "2006-01-02"

// Task represents one row in the tasks table.
// StartDate/EndDate are stored as `YYYY-MM-DD` TEXT and parsed at the
// repository boundary. SeriesID is nil for standalone tasks and shared by
// every row of one recurring series (seed plus generated follow-ups).
type Task struct {
	ID               int64      `db:"id" json:"id"`
	Title            string     `db:"task" json:"title"`
	AssignedTo       string     `db:"assigned_to" json:"assigned_to"`
	GivenBy          string     `db:"given_by" json:"given_by"`
	Priority         Priority   `db:"priority" json:"priority"`
	Status           Status     `db:"status" json:"status"`
	StartDate        time.Time  `db:"start_date" json:"start_date"`
	EndDate          time.Time  `db:"end_date" json:"end_date"`
	Progress         int        `db:"progress" json:"progress"`
	Comments         string     `db:"comments" json:"comments,omitempty"`
	AdminComments    string     `db:"admin_comments" json:"admin_comments,omitempty"`
	Recurrence       Recurrence `db:"recurrence" json:"recurrence"`
	RecurrenceUntil  *time.Time `db:"recurrence_until" json:"recurrence_until,omitempty"`
	SeriesID         *string    `db:"series_id" json:"series_id,omitempty"`
	CreatedAt        string     `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt        string     `db:"updated_at" json:"updated_at,omitempty"`
	Category         string     `db:"category" json:"category,omitempty"`
	Tags             string     `db:"tags" json:"tags,omitempty"`
	EstimatedHours   float64    `db:"estimated_hours" json:"estimated_hours,omitempty"`
	ActualHours      float64    `db:"actual_hours" json:"actual_hours,omitempty"`
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ValidRecurrence reports whether r is one of the known recurrence rules.
func ValidRecurrence(r Recurrence) bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// ClampProgress bounds a progress value into [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
