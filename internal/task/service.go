package task

import (
	"time"

	"workplan/internal/model"
)

// Service is the mutation surface handed to the CRUD collaborators. It
// wraps a Repo and fires the completion callback only after the status
// change has been durably committed, so schedule propagation never runs
// against uncommitted state.
type Service struct {
	Repo Repo

	// OnCompleted is invoked after a task's status has been persisted as
	// completed. Optional; typically schedule.Engine.OnTaskCompleted.
	OnCompleted func(t model.Task)
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpdateStatus transitions the task and, when the new status is completed,
// notifies the completion hook.
func (s *Service) UpdateStatus(id model.TaskID, status model.Status, force bool) (model.Task, error) {
	t, err := s.Repo.Update(id, Patch{Status: &status, ForceStatus: force})
	if err != nil {
		return model.Task{}, err
	}
	if t.Status == model.StatusCompleted && s.OnCompleted != nil {
		s.OnCompleted(t)
	}
	return t, nil
}

// LogTime validates and appends a time entry. The repo recomputes the
// task's logged hours as part of the same write.
func (s *Service) LogTime(id model.TaskID, user string, start, end time.Time) (model.Task, error) {
	entry, err := NewTimeEntry(user, start, end)
	if err != nil {
		return model.Task{}, err
	}
	return s.Repo.AddTimeEntry(id, entry)
}
