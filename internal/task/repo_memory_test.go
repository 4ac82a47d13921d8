package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workplan/internal/model"
)

func TestMemoryRepo_CreateDefaults(t *testing.T) {
	repo := NewMemoryRepo()

	created, err := repo.Create(model.Task{Title: "design review"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusTodo, created.Status)
	assert.NotNil(t, created.Dependencies)
	assert.NotNil(t, created.Dependents)
	assert.NotNil(t, created.TimeEntries)
	assert.Zero(t, created.LoggedHours)
}

func TestMemoryRepo_CreateDerivesEndDate(t *testing.T) {
	repo := NewMemoryRepo()

	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(model.Task{
		Title:          "implement parser",
		StartDate:      start,
		EstimatedHours: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, start.Add(8*time.Hour), created.EndDate)
}

func TestMemoryRepo_CreateKeepsExplicitEndDate(t *testing.T) {
	repo := NewMemoryRepo()

	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)
	created, err := repo.Create(model.Task{
		Title:          "implement parser",
		StartDate:      start,
		EndDate:        end,
		EstimatedHours: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, end, created.EndDate)
}

func TestMemoryRepo_GetMissing(t *testing.T) {
	repo := NewMemoryRepo()

	_, err := repo.Get("task_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_UpdateStatusFollowsLifecycle(t *testing.T) {
	repo := NewMemoryRepo()
	created, err := repo.Create(model.Task{Title: "write docs"})
	require.NoError(t, err)

	status := model.StatusInProgress
	updated, err := repo.Update(created.ID, Patch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, updated.Status)

	// Todo -> Completed is not a legal transition.
	bad := model.StatusCompleted
	_, err = repo.Update(created.ID, Patch{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMemoryRepo_CompletionStampsTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	created, err := repo.Create(model.Task{Title: "review PR"})
	require.NoError(t, err)

	cur := created
	for _, s := range []model.Status{model.StatusInProgress, model.StatusReview, model.StatusCompleted} {
		s := s
		var err error
		cur, err = repo.Update(cur.ID, Patch{Status: &s})
		require.NoError(t, err)
	}

	require.NotNil(t, cur.CompletedAt)
	assert.Equal(t, model.StatusCompleted, cur.Status)
	assert.Equal(t, 100, cur.CompletionPercent)
}

func TestMemoryRepo_ForcedReopenClearsCompletedAt(t *testing.T) {
	repo := NewMemoryRepo()
	created, err := repo.Create(model.Task{Title: "review PR"})
	require.NoError(t, err)

	cur := created
	for _, s := range []model.Status{model.StatusInProgress, model.StatusReview, model.StatusCompleted} {
		s := s
		cur, err = repo.Update(cur.ID, Patch{Status: &s})
		require.NoError(t, err)
	}

	// Leaving completed requires force; the plain path is rejected.
	reopen := model.StatusInProgress
	_, err = repo.Update(cur.ID, Patch{Status: &reopen})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	reopened, err := repo.Update(cur.ID, Patch{Status: &reopen, ForceStatus: true})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
	assert.Equal(t, model.StatusInProgress, reopened.Status)
}

func TestMemoryRepo_CompletionPercentClamped(t *testing.T) {
	repo := NewMemoryRepo()
	created, err := repo.Create(model.Task{Title: "clamp me"})
	require.NoError(t, err)

	over := 150
	updated, err := repo.Update(created.ID, Patch{CompletionPercent: &over})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.CompletionPercent)

	under := -5
	updated, err = repo.Update(created.ID, Patch{CompletionPercent: &under})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.CompletionPercent)
}

func TestMemoryRepo_AddTimeEntryRecomputesLoggedHours(t *testing.T) {
	repo := NewMemoryRepo()
	created, err := repo.Create(model.Task{Title: "log time"})
	require.NoError(t, err)

	start := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	entry, err := NewTimeEntry("dana", start, start.Add(90*time.Minute))
	require.NoError(t, err)

	updated, err := repo.AddTimeEntry(created.ID, entry)
	require.NoError(t, err)
	assert.Equal(t, 1.5, updated.LoggedHours)

	entry2, err := NewTimeEntry("dana", start.Add(2*time.Hour), start.Add(2*time.Hour+20*time.Minute))
	require.NoError(t, err)
	updated, err = repo.AddTimeEntry(created.ID, entry2)
	require.NoError(t, err)
	assert.InDelta(t, 1.83, updated.LoggedHours, 0.001)
}

func TestMemoryRepo_AddTimeEntryRejectsNonPositive(t *testing.T) {
	repo := NewMemoryRepo()
	created, err := repo.Create(model.Task{Title: "log time"})
	require.NoError(t, err)

	_, err = repo.AddTimeEntry(created.ID, model.TimeEntry{User: "dana"})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestMemoryRepo_ListFilters(t *testing.T) {
	repo := NewMemoryRepo()

	proj := "apollo"
	_, err := repo.Create(model.Task{Title: "a", Project: &proj, Assignee: "dana"})
	require.NoError(t, err)
	_, err = repo.Create(model.Task{Title: "b", Assignee: "lee"})
	require.NoError(t, err)

	got, err := repo.List(ListFilter{Project: "apollo"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)

	got, err = repo.List(ListFilter{Assignee: "lee"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Title)

	got, err = repo.List(ListFilter{Status: "open"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoryRepo_Delete(t *testing.T) {
	repo := NewMemoryRepo()
	created, err := repo.Create(model.Task{Title: "bye"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(created.ID))
	_, err = repo.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(created.ID), ErrNotFound)
}
