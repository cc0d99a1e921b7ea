// Package metrics derives productivity summaries from task sets.
package metrics

import (
	"math"
	"sort"
	"time"

	"centralTodoPlanner/models"
)

// Weights parameterize the efficiency score. The composite is
//
//	Completion*completion% + OnTime*ontime% + Progress*avgProgress - Overdue*overdue%
//
// rounded to two decimals and floored at zero. The split is a tunable policy
// value, not a fixed law; DefaultWeights matches the deployed formula.
type Weights struct {
	Completion float64
	OnTime     float64
	Progress   float64
	Overdue    float64
}

// DefaultWeights is the standard efficiency score weighting.
var DefaultWeights = Weights{Completion: 0.4, OnTime: 0.25, Progress: 0.2, Overdue: 0.15}

// Summary holds the aggregate statistics for one set of task rows.
type Summary struct {
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	Overdue         int     `json:"overdue"`
	OnTime          int     `json:"on_time"`
	AvgProgress     float64 `json:"avg_progress"`
	CompletionRate  float64 `json:"completion_rate"`
	OnTimeRate      float64 `json:"ontime_rate"`
	OverdueRate     float64 `json:"overdue_rate"`
	EfficiencyScore float64 `json:"efficiency_score"`
}

// Aggregate computes summary statistics over a set of task rows. The result
// depends only on the input set and the reference time (used for overdue
// detection): permuting the input or recomputing on unchanged input yields
// identical output. Returns nil for an empty set.
func Aggregate(tasks []models.Task, now time.Time, w Weights) *Summary {
	if len(tasks) == 0 {
		return nil
	}

	today := truncateToDay(now)
	s := &Summary{Total: len(tasks)}
	var progressSum int
	for i := range tasks {
		t := &tasks[i]
		completed := t.Status == models.StatusCompleted
		if completed {
			s.Completed++
			if !t.EndDate.Before(t.StartDate) {
				s.OnTime++
			}
		} else if t.EndDate.Before(today) {
			s.Overdue++
		}
		progressSum += models.ClampProgress(t.Progress)
	}

	total := float64(s.Total)
	s.AvgProgress = float64(progressSum) / total
	s.CompletionRate = float64(s.Completed) / total * 100
	s.OnTimeRate = float64(s.OnTime) / total * 100
	s.OverdueRate = float64(s.Overdue) / total * 100

	raw := w.Completion*s.CompletionRate + w.OnTime*s.OnTimeRate + w.Progress*s.AvgProgress - w.Overdue*s.OverdueRate
	s.EfficiencyScore = round2(raw)
	if s.EfficiencyScore < 0 {
		s.EfficiencyScore = 0
	}
	return s
}

// UserScore pairs a username with their summary for leaderboard rows.
type UserScore struct {
	Username string  `json:"username"`
	Summary  Summary `json:"summary"`
}

// Leaderboard computes per-user summaries and orders them by efficiency
// score descending, username ascending for ties. Users with no tasks are
// omitted.
func Leaderboard(tasksByUser map[string][]models.Task, now time.Time, w Weights) []UserScore {
	out := make([]UserScore, 0, len(tasksByUser))
	for user, tasks := range tasksByUser {
		if s := Aggregate(tasks, now, w); s != nil {
			out = append(out, UserScore{Username: user, Summary: *s})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Summary.EfficiencyScore != out[j].Summary.EfficiencyScore {
			return out[i].Summary.EfficiencyScore > out[j].Summary.EfficiencyScore
		}
		return out[i].Username < out[j].Username
	})
	return out
}

// GroupByAssignee buckets tasks by their assigned username.
func GroupByAssignee(tasks []models.Task) map[string][]models.Task {
	out := make(map[string][]models.Task)
	for _, t := range tasks {
		out[t.AssignedTo] = append(out[t.AssignedTo], t)
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
