package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"centralTodoPlanner/models"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings for a username, or nil when the user has
// never saved any.
func (r *SettingsRepository) Get(ctx context.Context, username string) (*models.UserSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s models.UserSettings
	err := r.db.QueryRowContext(ctx, `SELECT username, theme, notifications, daily_digest, week_start FROM user_settings WHERE username = ?`, username).
		Scan(&s.Username, &s.Theme, &s.Notifications, &s.DailyDigest, &s.WeekStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetOrDefault returns stored settings, falling back to defaults when absent.
// The defaults are not persisted until the user saves.
func (r *SettingsRepository) GetOrDefault(ctx context.Context, username string) (*models.UserSettings, error) {
	s, err := r.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return models.DefaultSettings(username), nil
	}
	return s, nil
}

// Upsert writes settings for a user, inserting or replacing in place.
func (r *SettingsRepository) Upsert(ctx context.Context, s *models.UserSettings) error {
	if s == nil {
		return errors.New("settings is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO user_settings (username, theme, notifications, daily_digest, week_start)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(username) DO UPDATE SET theme = excluded.theme, notifications = excluded.notifications, daily_digest = excluded.daily_digest, week_start = excluded.week_start`,
		s.Username, s.Theme, s.Notifications, s.DailyDigest, s.WeekStart)
	return err
}
