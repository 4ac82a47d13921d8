package report

import (
	"sort"
	"time"

	"workplan/internal/model"
)

// DueSoon returns the open tasks whose end date falls within the next
// `days` days of now, soonest first. Already-overdue tasks are included;
// they are the ones most worth surfacing.
func DueSoon(tasks []model.Task, now time.Time, days int) []model.Task {
	cutoff := startOfDay(now).AddDate(0, 0, days+1)

	out := []model.Task{}
	for _, t := range tasks {
		if t.Status == model.StatusCompleted {
			continue
		}
		if t.EndDate.IsZero() || !t.EndDate.Before(cutoff) {
			continue
		}
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].EndDate.Equal(out[j].EndDate) {
			return out[i].EndDate.Before(out[j].EndDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
