package task

import (
	"math"
	"time"

	"workplan/internal/model"
)

// RecomputeLoggedHours rebuilds the derived LoggedHours field from the
// task's time entries. Rounded to two decimals so repeated saves of the
// same entries never drift.
func RecomputeLoggedHours(t *model.Task) {
	total := 0.0
	for _, e := range t.TimeEntries {
		total += float64(e.DurationMinutes) / 60.0
	}
	t.LoggedHours = math.Round(total*100) / 100
}

// NewTimeEntry validates the interval and derives the duration.
// Zero and negative intervals are rejected outright, never clamped.
func NewTimeEntry(user string, start, end time.Time) (model.TimeEntry, error) {
	minutes := int(end.Sub(start) / time.Minute)
	if minutes <= 0 {
		return model.TimeEntry{}, ErrInvalidInterval
	}
	return model.TimeEntry{
		User:            user,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: minutes,
	}, nil
}
