package repository

import (
	"context"

	"centralTodoPlanner/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username, passwordHash string, role models.Role) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	ListUsernamesByRole(ctx context.Context, role models.Role) ([]string, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	EnsureBootstrapAdmin(ctx context.Context, username, passwordHash string) error
}

// TaskRepositoryI defines operations on Task entities.
type TaskRepositoryI interface {
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	CreateSeries(ctx context.Context, seed *models.Task, followups []models.Task) ([]models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByAssignee(ctx context.Context, username string) ([]models.Task, error)
	ListAll(ctx context.Context) ([]models.Task, error)
	ListBySeries(ctx context.Context, seriesID string) ([]models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	UpdateAdminComments(ctx context.Context, id int64, note string) error
	UpdateAdminCommentsBySeries(ctx context.Context, seriesID, note string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// SettingsRepositoryI defines operations on per-user settings.
type SettingsRepositoryI interface {
	Get(ctx context.Context, username string) (*models.UserSettings, error)
	GetOrDefault(ctx context.Context, username string) (*models.UserSettings, error)
	Upsert(ctx context.Context, s *models.UserSettings) error
}
