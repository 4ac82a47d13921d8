package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workplan/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func completedAt(ts time.Time) model.Task {
	return model.Task{Status: model.StatusCompleted, CompletedAt: &ts}
}

func TestComputeBurndown_IdealBoundaries(t *testing.T) {
	tasks := []model.Task{
		{Status: model.StatusTodo}, {Status: model.StatusTodo}, {Status: model.StatusTodo},
		{Status: model.StatusTodo}, {Status: model.StatusTodo},
	}
	start := day(2026, 8, 3)
	end := day(2026, 8, 16) // 14 days inclusive

	series := ComputeBurndown(tasks, start, end, ByCount, end.AddDate(0, 0, 5))

	require.Len(t, series.Dates, 14)
	assert.Equal(t, 5.0, series.IdealRemaining[0])
	assert.Equal(t, 0.0, series.IdealRemaining[13])
	for i := range series.ActualRemaining {
		assert.Equal(t, 5.0, series.ActualRemaining[i], "day %d", i)
	}
}

func TestComputeBurndown_SingleTaskCompletesMidWindow(t *testing.T) {
	start := day(2026, 8, 3)
	end := day(2026, 8, 12) // 10 days inclusive

	// Completes during day 3 of the window.
	done := completedAt(day(2026, 8, 5).Add(15 * time.Hour))
	done.EstimatedHours = 8

	series := ComputeBurndown([]model.Task{done}, start, end, ByCount, end)

	require.Len(t, series.Dates, 10)
	want := []float64{1, 1, 1, 0, 0, 0, 0, 0, 0, 0}
	assert.Equal(t, want, series.ActualRemaining)

	assert.Equal(t, 1.0, series.IdealRemaining[0])
	assert.Equal(t, 0.0, series.IdealRemaining[9])
	for i := 1; i < 10; i++ {
		assert.LessOrEqual(t, series.IdealRemaining[i], series.IdealRemaining[i-1])
	}
}

func TestComputeBurndown_DoesNotProjectPastToday(t *testing.T) {
	tasks := []model.Task{{Status: model.StatusTodo}}
	start := day(2026, 8, 3)
	end := day(2026, 8, 12)
	now := day(2026, 8, 7).Add(10 * time.Hour)

	series := ComputeBurndown(tasks, start, end, ByCount, now)

	// Only the 5 elapsed days are emitted.
	require.Len(t, series.Dates, 5)
	assert.True(t, series.Dates[4].Equal(day(2026, 8, 7)))
}

func TestComputeBurndown_EmptyTaskSet(t *testing.T) {
	start := day(2026, 8, 3)
	end := day(2026, 8, 7)

	series := ComputeBurndown(nil, start, end, ByCount, end)

	require.Len(t, series.Dates, 5)
	for i := range series.Dates {
		assert.Zero(t, series.ActualRemaining[i])
		assert.Zero(t, series.IdealRemaining[i])
	}
}

func TestComputeBurndown_HoursVariantWeighsByEstimate(t *testing.T) {
	start := day(2026, 8, 3)
	end := day(2026, 8, 6)

	big := completedAt(day(2026, 8, 4).Add(9 * time.Hour))
	big.EstimatedHours = 16
	small := model.Task{Status: model.StatusTodo, EstimatedHours: 4}

	series := ComputeBurndown([]model.Task{big, small}, start, end, ByHours, end)

	require.Len(t, series.Dates, 4)
	assert.Equal(t, 20.0, series.ActualRemaining[0])
	// big completed during day 2, so day 3 onward only small remains.
	assert.Equal(t, 20.0, series.ActualRemaining[1])
	assert.Equal(t, 4.0, series.ActualRemaining[2])
	assert.Equal(t, 4.0, series.ActualRemaining[3])
}

func TestComputeBurndown_InvertedWindow(t *testing.T) {
	series := ComputeBurndown(nil, day(2026, 8, 7), day(2026, 8, 3), ByCount, day(2026, 8, 10))
	assert.Empty(t, series.Dates)
}
