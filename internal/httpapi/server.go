// Package httpapi exposes the task planner over an authenticated JSON API.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"centralTodoPlanner/internal/auth"
	"centralTodoPlanner/internal/config"
	"centralTodoPlanner/internal/metrics"
	"centralTodoPlanner/repository"
)

const healthCheckPath = "/healthz"

// Server bundles dependencies and implements the HTTP handlers.
type Server struct {
	Users    *repository.UserRepository
	Tasks    *repository.TaskRepository
	Settings *repository.SettingsRepository
	Secret   string
	Weights  metrics.Weights
	// Now is the clock used for overdue detection; nil means time.Now.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Routes builds the route table for the server.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthCheckPath, s.handleHealth)
	mux.HandleFunc("POST /api/signup", s.handleSignup)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/export", s.handleExportTasks)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("PUT /api/tasks/{id}/admin-note", s.handleTaskAdminNote)
	mux.HandleFunc("PUT /api/series/{seriesID}/admin-note", s.handleSeriesAdminNote)
	mux.HandleFunc("GET /api/metrics", s.handleOwnMetrics)
	mux.HandleFunc("GET /api/metrics/all", s.handleGlobalMetrics)
	mux.HandleFunc("GET /api/metrics/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/metrics/user/{username}", s.handleUserMetrics)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)
	return mux
}

// Handler wraps the route table with the authentication middleware.
func (s *Server) Handler() http.Handler {
	mw := auth.Middleware(s.Secret, "/api/login", "/api/signup", healthCheckPath)
	return mw(s.Routes())
}

// WeightsFromConfig converts the scoring policy config into metric weights.
func WeightsFromConfig(c config.ScoringConfig) metrics.Weights {
	return metrics.Weights{
		Completion: c.CompletionWeight,
		OnTime:     c.OnTimeWeight,
		Progress:   c.ProgressWeight,
		Overdue:    c.OverdueWeight,
	}
}

// StartHTTP starts the HTTP server on the configured address and returns a
// shutdown function.
func StartHTTP(cfg *config.Config, users *repository.UserRepository, tasks *repository.TaskRepository, settings *repository.SettingsRepository) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}

	addr := cfg.HTTP.Address
	if addr == "" {
		addr = ":8080"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Users:    users,
		Tasks:    tasks,
		Settings: settings,
		Secret:   cfg.Auth.JWTSecret,
		Weights:  WeightsFromConfig(cfg.Scoring),
	}
	srv := &http.Server{Handler: s.Handler()}

	go func() { _ = srv.Serve(lis) }()

	return srv.Shutdown, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondErr maps known sentinel errors to HTTP status codes; anything else
// is an internal error that aborts the current operation.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON parses a request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
