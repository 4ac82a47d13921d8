package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_CreateAndWindow(t *testing.T) {
	repo := NewMemoryRepo()

	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	p, err := repo.Create("Sprint 12", "stabilization", start, end)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	got, err := repo.Get(p.ID)
	require.NoError(t, err)
	ws, we := got.Window()
	assert.True(t, ws.Equal(start))
	assert.True(t, we.Equal(end))
}

func TestMemoryRepo_ListExcludesArchived(t *testing.T) {
	repo := NewMemoryRepo()

	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	p, err := repo.Create("Sprint 12", "", start, start.AddDate(0, 0, 14))
	require.NoError(t, err)
	_, err = repo.Create("Sprint 13", "", start.AddDate(0, 0, 14), start.AddDate(0, 0, 28))
	require.NoError(t, err)

	p.Archive()
	_, err = repo.Update(p)
	require.NoError(t, err)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sprint 13", list[0].Name)
}

func TestMemoryRepo_GetMissing(t *testing.T) {
	repo := NewMemoryRepo()
	_, err := repo.Get("proj_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
