package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"centralTodoPlanner/internal/auth"
	"centralTodoPlanner/internal/recurrence"
	"centralTodoPlanner/models"
)

type createTaskRequest struct {
	Title           string  `json:"title"`
	AssignedTo      string  `json:"assigned_to"`
	GivenBy         string  `json:"given_by"`
	Priority        string  `json:"priority"`
	Status          string  `json:"status"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Progress        int     `json:"progress"`
	Comments        string  `json:"comments"`
	Recurrence      string  `json:"recurrence"`
	RecurrenceUntil string  `json:"recurrence_until"`
	Category        string  `json:"category"`
	Tags            string  `json:"tags"`
	EstimatedHours  float64 `json:"estimated_hours"`
	ActualHours     float64 `json:"actual_hours"`
}

type tasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}

// handleCreateTask creates a task for the caller (admins may assign to
// another user). A recurring task with a repeat-until date is expanded and
// written as one atomic series.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequireUserOrAdmin(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	assignedTo := req.AssignedTo
	if assignedTo == "" {
		assignedTo = p.Name
	}
	if assignedTo != p.Name {
		if _, err := auth.RequireAdmin(r.Context(), s.Users); err != nil {
			respondErr(w, err)
			return
		}
	}

	startDate, err := time.Parse(models.DateFormat, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(models.DateFormat, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	task := models.Task{
		Title:          strings.TrimSpace(req.Title),
		AssignedTo:     assignedTo,
		GivenBy:        req.GivenBy,
		Priority:       models.Priority(req.Priority),
		Status:         models.Status(req.Status),
		StartDate:      startDate,
		EndDate:        endDate,
		Progress:       models.ClampProgress(req.Progress),
		Comments:       req.Comments,
		Recurrence:     models.Recurrence(req.Recurrence),
		Category:       req.Category,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.StatusNotStarted
	}
	if task.Recurrence == "" {
		task.Recurrence = models.RecurrenceNone
	}
	if !models.ValidPriority(task.Priority) || !models.ValidStatus(task.Status) || !models.ValidRecurrence(task.Recurrence) {
		writeError(w, http.StatusBadRequest, "invalid priority, status or recurrence value")
		return
	}

	var until *time.Time
	if req.RecurrenceUntil != "" {
		u, err := time.Parse(models.DateFormat, req.RecurrenceUntil)
		if err != nil {
			writeError(w, http.StatusBadRequest, "recurrence_until must be YYYY-MM-DD")
			return
		}
		until = &u
	}

	// A recurring rule without a repeat-until date leaves the seed standing
	// alone with no series id.
	if task.Recurrence == models.RecurrenceNone || until == nil {
		created, err := s.Tasks.Create(r.Context(), &task)
		if err != nil {
			respondErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tasksResponse{Tasks: []models.Task{*created}})
		return
	}

	seriesID := uuid.NewString()
	task.SeriesID = &seriesID
	task.RecurrenceUntil = until
	followups := recurrence.Expand(task, task.Recurrence, *until)
	rows, err := s.Tasks.CreateSeries(r.Context(), &task, followups)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tasksResponse{Tasks: rows})
}

// handleListTasks returns the caller's tasks. Admins may request another
// user's tasks via ?user= or every task via ?all=1.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequireUserOrAdmin(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	q := r.URL.Query()
	target := p.Name
	if q.Get("all") == "1" || (q.Get("user") != "" && q.Get("user") != p.Name) {
		if _, err := auth.RequireAdmin(r.Context(), s.Users); err != nil {
			respondErr(w, err)
			return
		}
	}

	var tasks []models.Task
	if q.Get("all") == "1" {
		tasks, err = s.Tasks.ListAll(r.Context())
	} else {
		if u := q.Get("user"); u != "" {
			target = u
		}
		tasks, err = s.Tasks.ListByAssignee(r.Context(), target)
	}
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksResponse{Tasks: tasks})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id")
	}
	return id, nil
}

// loadTaskForCaller fetches a task and verifies the caller owns it or is a
// verified admin.
func (s *Server) loadTaskForCaller(r *http.Request, p *auth.Principal) (*models.Task, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	t, err := s.Tasks.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	if t.AssignedTo != p.Name {
		if _, err := auth.RequireAdmin(r.Context(), s.Users); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequireUserOrAdmin(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	if _, err := pathID(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.loadTaskForCaller(r, p)
	if err != nil {
		respondErr(w, err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type updateTaskRequest struct {
	Title          *string  `json:"title"`
	GivenBy        *string  `json:"given_by"`
	Priority       *string  `json:"priority"`
	Status         *string  `json:"status"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	Progress       *int     `json:"progress"`
	Comments       *string  `json:"comments"`
	Category       *string  `json:"category"`
	Tags           *string  `json:"tags"`
	EstimatedHours *float64 `json:"estimated_hours"`
	ActualHours    *float64 `json:"actual_hours"`
}

// handleUpdateTask applies a partial edit (status, progress, comments and
// other mutable fields) to a task owned by the caller, or any task for an
// admin.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequireUserOrAdmin(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	if _, err := pathID(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.loadTaskForCaller(r, p)
	if err != nil {
		respondErr(w, err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.GivenBy != nil {
		t.GivenBy = *req.GivenBy
	}
	if req.Priority != nil {
		t.Priority = models.Priority(*req.Priority)
		if !models.ValidPriority(t.Priority) {
			writeError(w, http.StatusBadRequest, "invalid priority value")
			return
		}
	}
	if req.Status != nil {
		t.Status = models.Status(*req.Status)
		if !models.ValidStatus(t.Status) {
			writeError(w, http.StatusBadRequest, "invalid status value")
			return
		}
	}
	if req.StartDate != nil {
		d, err := time.Parse(models.DateFormat, *req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		t.StartDate = d
	}
	if req.EndDate != nil {
		d, err := time.Parse(models.DateFormat, *req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		t.EndDate = d
	}
	if req.Progress != nil {
		t.Progress = models.ClampProgress(*req.Progress)
	}
	if req.Comments != nil {
		t.Comments = *req.Comments
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Tags != nil {
		t.Tags = *req.Tags
	}
	if req.EstimatedHours != nil {
		t.EstimatedHours = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		t.ActualHours = *req.ActualHours
	}

	if err := s.Tasks.Update(r.Context(), t); err != nil {
		respondErr(w, err)
		return
	}
	updated, err := s.Tasks.GetByID(r.Context(), t.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequireUserOrAdmin(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	if _, err := pathID(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.loadTaskForCaller(r, p)
	if err != nil {
		respondErr(w, err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err := s.Tasks.Delete(r.Context(), t.ID); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type adminNoteRequest struct {
	Note string `json:"note"`
}

// handleTaskAdminNote sets the admin note on a single task.
func (s *Server) handleTaskAdminNote(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAdmin(r.Context(), s.Users); err != nil {
		respondErr(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req adminNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.Tasks.UpdateAdminComments(r.Context(), id, req.Note); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// handleSeriesAdminNote broadcasts an admin note across every row of a
// recurring series.
func (s *Server) handleSeriesAdminNote(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAdmin(r.Context(), s.Users); err != nil {
		respondErr(w, err)
		return
	}
	seriesID := r.PathValue("seriesID")
	if seriesID == "" {
		writeError(w, http.StatusBadRequest, "series id is required")
		return
	}
	var req adminNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	n, err := s.Tasks.UpdateAdminCommentsBySeries(r.Context(), seriesID, req.Note)
	if err != nil {
		respondErr(w, err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "series not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}
