package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workplan/internal/model"
)

func TestFileRepo_PersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	created, err := repo.Create(model.Task{Title: "survive restart"})
	require.NoError(t, err)

	reloaded, err := NewFileRepo(dir)
	require.NoError(t, err)

	got, err := reloaded.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "survive restart", got.Title)
}

func TestFileRepo_RejectedPatchRollsBack(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	created, err := repo.Create(model.Task{Title: "strict"})
	require.NoError(t, err)

	bad := model.Status("launched")
	_, err = repo.Update(created.ID, Patch{Status: &bad})
	require.ErrorIs(t, err, ErrInvalidStatus)

	got, err := repo.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTodo, got.Status)
}
