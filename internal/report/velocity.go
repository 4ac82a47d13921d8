package report

import (
	"sort"
	"time"

	"workplan/internal/model"
)

type Granularity string

const (
	Weekly   Granularity = "weekly"
	Biweekly Granularity = "biweekly"
	Monthly  Granularity = "monthly"
)

func (g Granularity) Valid() bool {
	switch g {
	case Weekly, Biweekly, Monthly:
		return true
	default:
		return false
	}
}

// VelocityBucket aggregates the tasks completed within one period.
type VelocityBucket struct {
	PeriodStart    time.Time `json:"periodStart"`
	TaskCount      int       `json:"taskCount"`
	CommittedHours float64   `json:"committedHours"`
	ActualHours    float64   `json:"actualHours"`
	// Accuracy is actual/committed for the bucket, 0 when nothing was
	// committed.
	Accuracy float64 `json:"accuracy"`
}

type VelocitySeries struct {
	Buckets []VelocityBucket `json:"buckets"`
	// AverageVelocity is the mean actual hours across the reported
	// buckets.
	AverageVelocity float64 `json:"averageVelocity"`
}

// ComputeVelocity groups completed tasks into period buckets and sums
// committed (estimated) against actual (logged) hours. The most recent
// maxPeriods buckets are kept and presented oldest-first; maxPeriods <= 0
// keeps everything. Tasks that are not completed, or carry no completion
// timestamp, are ignored.
func ComputeVelocity(tasks []model.Task, granularity Granularity, maxPeriods int) VelocitySeries {
	byPeriod := map[int64]*VelocityBucket{}

	for _, t := range tasks {
		if t.Status != model.StatusCompleted || t.CompletedAt == nil {
			continue
		}
		start := periodStart(*t.CompletedAt, granularity)
		key := start.Unix()
		b, ok := byPeriod[key]
		if !ok {
			b = &VelocityBucket{PeriodStart: start}
			byPeriod[key] = b
		}
		b.TaskCount++
		b.CommittedHours += t.EstimatedHours
		b.ActualHours += t.LoggedHours
	}

	buckets := make([]VelocityBucket, 0, len(byPeriod))
	for _, b := range byPeriod {
		if b.CommittedHours > 0 {
			b.Accuracy = b.ActualHours / b.CommittedHours
		}
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].PeriodStart.Before(buckets[j].PeriodStart)
	})

	if maxPeriods > 0 && len(buckets) > maxPeriods {
		buckets = buckets[len(buckets)-maxPeriods:]
	}

	series := VelocitySeries{Buckets: buckets}
	if len(buckets) > 0 {
		sum := 0.0
		for _, b := range buckets {
			sum += b.ActualHours
		}
		series.AverageVelocity = sum / float64(len(buckets))
	}
	return series
}

// periodStart truncates a completion timestamp to the start of its
// period. Weeks start on Monday; biweekly periods are pairs of weeks
// anchored at a fixed reference Monday so bucket boundaries never shift
// with the input data.
func periodStart(t time.Time, granularity Granularity) time.Time {
	switch granularity {
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case Biweekly:
		week := startOfWeek(t)
		if (civilDays(week)/7)%2 != 0 {
			week = week.AddDate(0, 0, -7)
		}
		return week
	default:
		return startOfWeek(t)
	}
}

func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}
