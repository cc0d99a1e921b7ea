package httpapi

import (
	"net/http"

	"centralTodoPlanner/internal/auth"
	"centralTodoPlanner/internal/metrics"
	"centralTodoPlanner/models"
)

type metricsResponse struct {
	// Summary is null when the task set is empty.
	Summary *metrics.Summary `json:"summary"`
}

// handleOwnMetrics computes the caller's summary from a full scan of their
// current tasks. No caching: dashboards always see current data.
func (s *Server) handleOwnMetrics(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequireUserOrAdmin(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	tasks, err := s.Tasks.ListByAssignee(r.Context(), p.Name)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metricsResponse{Summary: metrics.Aggregate(tasks, s.now(), s.Weights)})
}

// handleGlobalMetrics computes the aggregate over every user's tasks (admin).
func (s *Server) handleGlobalMetrics(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAdmin(r.Context(), s.Users); err != nil {
		respondErr(w, err)
		return
	}
	tasks, err := s.Tasks.ListAll(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metricsResponse{Summary: metrics.Aggregate(tasks, s.now(), s.Weights)})
}

// handleUserMetrics computes the summary for one selected user (admin).
func (s *Server) handleUserMetrics(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAdmin(r.Context(), s.Users); err != nil {
		respondErr(w, err)
		return
	}
	username := r.PathValue("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	tasks, err := s.Tasks.ListByAssignee(r.Context(), username)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metricsResponse{Summary: metrics.Aggregate(tasks, s.now(), s.Weights)})
}

type leaderboardResponse struct {
	Leaderboard []metrics.UserScore `json:"leaderboard"`
}

// handleLeaderboard ranks regular users by efficiency score (admin).
// Admin accounts are excluded, matching the dashboard's leaderboard scope.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAdmin(r.Context(), s.Users); err != nil {
		respondErr(w, err)
		return
	}
	usernames, err := s.Users.ListUsernamesByRole(r.Context(), models.RoleUser)
	if err != nil {
		respondErr(w, err)
		return
	}
	tasks, err := s.Tasks.ListAll(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	grouped := metrics.GroupByAssignee(tasks)
	byUser := make(map[string][]models.Task, len(usernames))
	for _, name := range usernames {
		if rows, ok := grouped[name]; ok {
			byUser[name] = rows
		}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Leaderboard: metrics.Leaderboard(byUser, s.now(), s.Weights)})
}
