// Package report computes derived time-series datasets over a task set.
// Everything here is pure: callers pass the tasks and the clock reference,
// nothing is persisted.
package report

import (
	"math"
	"time"

	"workplan/internal/model"
)

type BurndownVariant string

const (
	// ByCount burns one unit per task.
	ByCount BurndownVariant = "count"
	// ByHours burns each task's estimated hours.
	ByHours BurndownVariant = "hours"
)

// BurndownSeries is a day-indexed pair of curves over a window: the work
// actually remaining versus a straight line from total to zero.
type BurndownSeries struct {
	Dates           []time.Time `json:"dates"`
	ActualRemaining []float64   `json:"actualRemaining"`
	IdealRemaining  []float64   `json:"idealRemaining"`
}

// ComputeBurndown builds the series for [start, end] (inclusive, whole
// days). Days past now are not emitted: the actual curve is never
// projected into the future. The ideal line is always computed against
// the full window, so a partially elapsed window still slopes toward
// zero at the window's true end.
func ComputeBurndown(tasks []model.Task, start, end time.Time, variant BurndownVariant, now time.Time) BurndownSeries {
	series := BurndownSeries{
		Dates:           []time.Time{},
		ActualRemaining: []float64{},
		IdealRemaining:  []float64{},
	}

	first := startOfDay(start)
	last := startOfDay(end)
	if last.Before(first) {
		return series
	}

	total := 0.0
	for _, t := range tasks {
		total += taskWeight(t, variant)
	}

	today := startOfDay(now)
	windowDays := daysBetween(first, last) + 1

	for i, d := 0, first; !d.After(last); i, d = i+1, d.AddDate(0, 0, 1) {
		if d.After(today) {
			break
		}

		remaining := 0.0
		ideal := 0.0
		if total > 0 {
			completed := 0.0
			for _, t := range tasks {
				// d is midnight at the start of the day. A task completed
				// during day d therefore still counts as remaining on d and
				// drops out on d+1. Flipping this to end-of-day would shift
				// every actual curve one day earlier.
				if t.Status == model.StatusCompleted && t.CompletedAt != nil && !t.CompletedAt.After(d) {
					completed += taskWeight(t, variant)
				}
			}
			remaining = total - completed

			frac := 1.0
			if windowDays > 1 {
				frac = float64(i) / float64(windowDays-1)
			}
			ideal = math.Round(total * (1 - frac))
		}

		series.Dates = append(series.Dates, d)
		series.ActualRemaining = append(series.ActualRemaining, remaining)
		series.IdealRemaining = append(series.IdealRemaining, ideal)
	}

	return series
}

func taskWeight(t model.Task, variant BurndownVariant) float64 {
	if variant == ByHours {
		return t.EstimatedHours
	}
	return 1
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole civil days from a to b, ignoring time zone
// oddities like DST transitions.
func daysBetween(a, b time.Time) int {
	return civilDays(b) - civilDays(a)
}

// civilDays converts a date to a day count since the civil epoch
// (1970-01-01), using only the date components.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	yy := y
	if m <= time.February {
		yy--
	}
	era := yy / 400
	if yy < 0 {
		era = (yy - 399) / 400
	}
	yoe := yy - era*400
	mm := int(m)
	var doy int
	if mm > 2 {
		doy = (153*(mm-3)+2)/5 + d - 1
	} else {
		doy = (153*(mm+9)+2)/5 + d - 1
	}
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}
