// Package recurrence materializes the follow-up rows of a recurring task
// series from a single seed definition.
package recurrence

import (
	"time"

	"centralTodoPlanner/models"
)

// Expand generates the follow-up tasks for a recurring seed, advancing the
// seed's start and end dates by one rule step per row until the candidate
// start date would pass until. The seed itself is not included in the result.
//
// Each emitted row copies the seed's fields but resets status to
// "Not Started" and progress to 0, and carries the seed's series id.
// Rule None or a zero until date yields no rows, as does until earlier than
// the seed's start date. Every step strictly advances the start date, so
// expansion always terminates.
func Expand(seed models.Task, rule models.Recurrence, until time.Time) []models.Task {
	if rule == models.RecurrenceNone || rule == "" || until.IsZero() {
		return nil
	}

	var out []models.Task
	start := seed.StartDate
	end := seed.EndDate
	for {
		start = step(start, rule)
		end = step(end, rule)
		if start.After(until) {
			break
		}
		next := seed
		next.ID = 0
		next.StartDate = start
		next.EndDate = end
		next.Status = models.StatusNotStarted
		next.Progress = 0
		next.CreatedAt = ""
		next.UpdatedAt = ""
		out = append(out, next)
	}
	return out
}

// step advances a date by one rule interval. Monthly steps preserve the
// day-of-month where the target month has it, otherwise clamp to the last
// day of that month (Jan 31 -> Feb 28/29). The clamped value propagates to
// subsequent steps (Jan 31 -> Feb 29 -> Mar 29).
func step(d time.Time, rule models.Recurrence) time.Time {
	switch rule {
	case models.RecurrenceDaily:
		return d.AddDate(0, 0, 1)
	case models.RecurrenceWeekly:
		return d.AddDate(0, 0, 7)
	case models.RecurrenceMonthly:
		return addMonthClamped(d)
	}
	return d
}

func addMonthClamped(d time.Time) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+1, 1, 0, 0, 0, 0, d.Location())
	if last := lastDayOfMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

func lastDayOfMonth(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
