package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workplan/internal/model"
)

func TestDueSoon_WindowAndOrdering(t *testing.T) {
	now := day(2026, 8, 3).Add(9 * time.Hour)

	tasks := []model.Task{
		{ID: "task_late", Title: "late", Status: model.StatusTodo, EndDate: day(2026, 8, 20)},
		{ID: "task_tomorrow", Title: "tomorrow", Status: model.StatusInProgress, EndDate: day(2026, 8, 4)},
		{ID: "task_overdue", Title: "overdue", Status: model.StatusTodo, EndDate: day(2026, 8, 1)},
		{ID: "task_done", Title: "done", Status: model.StatusCompleted, EndDate: day(2026, 8, 4)},
	}

	got := DueSoon(tasks, now, 3)
	require.Len(t, got, 2)
	assert.Equal(t, model.TaskID("task_overdue"), got[0].ID)
	assert.Equal(t, model.TaskID("task_tomorrow"), got[1].ID)
}

func TestDueSoon_SkipsUnscheduled(t *testing.T) {
	got := DueSoon([]model.Task{{ID: "task_x", Status: model.StatusTodo}}, day(2026, 8, 3), 7)
	assert.Empty(t, got)
}
