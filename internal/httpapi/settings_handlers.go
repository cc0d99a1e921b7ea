package httpapi

import (
	"net/http"

	"centralTodoPlanner/internal/auth"
)

// handleGetSettings returns the caller's settings, falling back to defaults
// when they have never saved any.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequireUserOrAdmin(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	settings, err := s.Settings.GetOrDefault(r.Context(), p.Name)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type putSettingsRequest struct {
	Theme         *string `json:"theme"`
	Notifications *bool   `json:"notifications"`
	DailyDigest   *bool   `json:"daily_digest"`
	WeekStart     *string `json:"week_start"`
}

// handlePutSettings saves the caller's settings. Omitted fields keep their
// current (or default) values.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequireUserOrAdmin(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	var req putSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	current, err := s.Settings.GetOrDefault(r.Context(), p.Name)
	if err != nil {
		respondErr(w, err)
		return
	}
	next := *current
	next.Username = p.Name
	if req.Theme != nil {
		next.Theme = *req.Theme
	}
	if req.Notifications != nil {
		next.Notifications = *req.Notifications
	}
	if req.DailyDigest != nil {
		next.DailyDigest = *req.DailyDigest
	}
	if req.WeekStart != nil {
		next.WeekStart = *req.WeekStart
	}
	if err := s.Settings.Upsert(r.Context(), &next); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}
