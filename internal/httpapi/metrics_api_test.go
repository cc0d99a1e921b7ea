package httpapi

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"centralTodoPlanner/models"
)

// seedTask creates a task through the API and fails the test on any error.
func seedTask(t *testing.T, s *Server, token string, body map[string]any) models.Task {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/tasks", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed task: code=%d body=%s", rec.Code, rec.Body.String())
	}
	return decodeBody[tasksResponse](t, rec).Tasks[0]
}

func TestOwnMetrics(t *testing.T) {
	s := newTestServer(t, "apimetrics")
	alice := signupAndLogin(t, s, "alice", "pw", "user")

	// No tasks yet: summary is null
	rec := doJSON(t, s, http.MethodGet, "/api/metrics", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty metrics: code=%d", rec.Code)
	}
	if got := decodeBody[metricsResponse](t, rec); got.Summary != nil {
		t.Fatalf("expected null summary, got %+v", got.Summary)
	}

	// One completed on-time, one overdue. Clock is fixed at 2024-06-15.
	seedTask(t, s, alice, map[string]any{
		"title": "done", "status": "Completed", "progress": 100,
		"start_date": "2024-06-01", "end_date": "2024-06-20",
	})
	seedTask(t, s, alice, map[string]any{
		"title": "late", "status": "Not Started", "progress": 0,
		"start_date": "2024-05-01", "end_date": "2024-06-01",
	})

	rec = doJSON(t, s, http.MethodGet, "/api/metrics", alice, nil)
	got := decodeBody[metricsResponse](t, rec)
	if got.Summary == nil {
		t.Fatal("expected summary")
	}
	sum := got.Summary
	if sum.Total != 2 || sum.Completed != 1 || sum.Overdue != 1 || sum.OnTime != 1 {
		t.Fatalf("counts: %+v", sum)
	}
	// 0.4*50 + 0.25*50 + 0.2*50 - 0.15*50
	if sum.EfficiencyScore != 35.0 {
		t.Fatalf("efficiency score = %v, want 35.0", sum.EfficiencyScore)
	}
}

func TestAdminMetricsAndLeaderboard(t *testing.T) {
	s := newTestServer(t, "apiboard")
	admin := signupAndLogin(t, s, "boss", "pw", "admin")
	alice := signupAndLogin(t, s, "alice", "pw", "user")
	bob := signupAndLogin(t, s, "bob", "pw", "user")

	// Alice finishes her task, bob leaves his overdue, the admin has one too.
	seedTask(t, s, alice, map[string]any{
		"title": "a", "status": "Completed", "progress": 100,
		"start_date": "2024-06-01", "end_date": "2024-06-10",
	})
	seedTask(t, s, bob, map[string]any{
		"title": "b", "status": "Not Started", "progress": 0,
		"start_date": "2024-05-01", "end_date": "2024-06-01",
	})
	seedTask(t, s, admin, map[string]any{
		"title": "c", "status": "Completed", "progress": 100,
		"start_date": "2024-06-01", "end_date": "2024-06-10",
	})

	// Regular users cannot reach the admin views
	for _, path := range []string{"/api/metrics/all", "/api/metrics/leaderboard", "/api/metrics/user/bob"} {
		if rec := doJSON(t, s, http.MethodGet, path, alice, nil); rec.Code != http.StatusForbidden {
			t.Fatalf("%s as user: code=%d", path, rec.Code)
		}
	}

	// Global view counts every task, admin's included
	rec := doJSON(t, s, http.MethodGet, "/api/metrics/all", admin, nil)
	if got := decodeBody[metricsResponse](t, rec); got.Summary == nil || got.Summary.Total != 3 {
		t.Fatalf("global metrics: %+v", got.Summary)
	}

	// Per-user view
	rec = doJSON(t, s, http.MethodGet, "/api/metrics/user/bob", admin, nil)
	got := decodeBody[metricsResponse](t, rec)
	if got.Summary == nil || got.Summary.Total != 1 || got.Summary.Overdue != 1 {
		t.Fatalf("bob metrics: %+v", got.Summary)
	}

	// Leaderboard ranks only regular users, best score first
	rec = doJSON(t, s, http.MethodGet, "/api/metrics/leaderboard", admin, nil)
	board := decodeBody[leaderboardResponse](t, rec).Leaderboard
	if len(board) != 2 {
		t.Fatalf("leaderboard size = %d, want 2", len(board))
	}
	if board[0].Username != "alice" || board[1].Username != "bob" {
		t.Fatalf("leaderboard order: %s, %s", board[0].Username, board[1].Username)
	}
	if board[0].Summary.EfficiencyScore <= board[1].Summary.EfficiencyScore {
		t.Fatalf("leaderboard not sorted by score: %v <= %v",
			board[0].Summary.EfficiencyScore, board[1].Summary.EfficiencyScore)
	}
	for _, row := range board {
		if row.Username == "boss" {
			t.Fatal("admin account leaked into leaderboard")
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestServer(t, "apisettings")
	alice := signupAndLogin(t, s, "alice", "pw", "user")

	// First read serves defaults without persisting them
	rec := doJSON(t, s, http.MethodGet, "/api/settings", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get defaults: code=%d", rec.Code)
	}
	got := decodeBody[models.UserSettings](t, rec)
	want := models.DefaultSettings("alice")
	if got != *want {
		t.Fatalf("defaults = %+v, want %+v", got, *want)
	}

	// Partial update keeps untouched fields
	rec = doJSON(t, s, http.MethodPut, "/api/settings", alice, map[string]any{
		"theme": "dark", "daily_digest": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings: code=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, s, http.MethodGet, "/api/settings", alice, nil)
	got = decodeBody[models.UserSettings](t, rec)
	if got.Theme != "dark" || !got.DailyDigest {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.Notifications || got.WeekStart != "Monday" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestExportFormats(t *testing.T) {
	s := newTestServer(t, "apiexport")
	admin := signupAndLogin(t, s, "boss", "pw", "admin")
	alice := signupAndLogin(t, s, "alice", "pw", "user")

	seedTask(t, s, alice, map[string]any{
		"title": "quarterly, review", "priority": "High",
		"start_date": "2024-06-01", "end_date": "2024-06-30",
	})
	seedTask(t, s, admin, map[string]any{
		"title": "audit", "start_date": "2024-06-01", "end_date": "2024-06-30",
	})

	// JSON export (default format) wraps rows with count and timestamp
	rec := doJSON(t, s, http.MethodGet, "/api/tasks/export", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("json export: code=%d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "tasks.json") {
		t.Fatalf("json disposition: %q", cd)
	}
	exp := decodeBody[jsonExport](t, rec)
	if exp.Count != 1 || len(exp.Tasks) != 1 || exp.ExportedAt == "" {
		t.Fatalf("json export: %+v", exp)
	}

	// CSV export: header plus one row, commas in the title survive quoting
	rec = doJSON(t, s, http.MethodGet, "/api/tasks/export?format=csv", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv export: code=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("csv content type: %q", ct)
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("csv rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][1] != "Task" {
		t.Fatalf("csv header: %v", rows[0])
	}
	if rows[1][1] != "quarterly, review" || rows[1][4] != "High" {
		t.Fatalf("csv row: %v", rows[1])
	}

	// ?all=1 is admin-only
	if rec := doJSON(t, s, http.MethodGet, "/api/tasks/export?all=1", alice, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("user all export: code=%d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/tasks/export?all=1", admin, nil)
	if got := decodeBody[jsonExport](t, rec); got.Count != 2 {
		t.Fatalf("admin all export count = %d, want 2", got.Count)
	}

	// Unknown format rejected
	if rec := doJSON(t, s, http.MethodGet, "/api/tasks/export?format=xml", alice, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format: code=%d", rec.Code)
	}
}
