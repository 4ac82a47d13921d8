package task

import (
	"errors"
	"time"

	"workplan/internal/model"
)

var (
	ErrNotFound          = errors.New("task not found")
	ErrInvalidInterval   = errors.New("time entry end must be after start")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrInvalidStatus     = errors.New("unknown status")
)

// Patch represents a partial update.
// nil pointer => "no change"
// empty string for Project => clear (set to nil)
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Project     *string `json:"project,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`

	Status *model.Status `json:"status,omitempty"`
	// ForceStatus bypasses the lifecycle check, e.g. an admin reopening a
	// completed task. Leaving completed clears CompletedAt.
	ForceStatus bool `json:"forceStatus,omitempty"`

	EstimatedHours    *float64   `json:"estimatedHours,omitempty"`
	CompletionPercent *int       `json:"completionPercent,omitempty"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`

	Dependencies *[]model.DependencyEdge `json:"dependencies,omitempty"`
	Dependents   *[]model.TaskID         `json:"dependents,omitempty"`
}

type ListFilter struct {
	// Status: "" | "all" | "open" | "completed"
	Status string

	// Project: "" | "any" | "<exact project name>"
	Project string

	// Assignee: "" = don't care
	Assignee string
}

type Repo interface {
	Create(t model.Task) (model.Task, error)
	Get(id model.TaskID) (model.Task, error)
	Update(id model.TaskID, patch Patch) (model.Task, error)
	List(filter ListFilter) ([]model.Task, error)
	Delete(id model.TaskID) error
	AddTimeEntry(id model.TaskID, entry model.TimeEntry) (model.Task, error)
}

func normalizeTask(t *model.Task) {
	if t.Dependencies == nil {
		t.Dependencies = []model.DependencyEdge{}
	}
	if t.Dependents == nil {
		t.Dependents = []model.TaskID{}
	}
	if t.TimeEntries == nil {
		t.TimeEntries = []model.TimeEntry{}
	}
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.EndDate.IsZero() && !t.StartDate.IsZero() {
		t.EndDate = model.DefaultEndDate(t.StartDate, t.EstimatedHours)
	}
	RecomputeLoggedHours(t)
}

func applyPatch(t *model.Task, p Patch) error {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}

	// pointer string field with "empty clears" semantics
	if p.Project != nil {
		if *p.Project == "" {
			t.Project = nil
		} else {
			t.Project = p.Project
		}
	}

	if p.Status != nil {
		if err := applyStatus(t, *p.Status, p.ForceStatus); err != nil {
			return err
		}
	}

	if p.EstimatedHours != nil {
		t.EstimatedHours = *p.EstimatedHours
	}
	if p.CompletionPercent != nil {
		v := *p.CompletionPercent
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		t.CompletionPercent = v
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}

	if p.Dependencies != nil {
		if *p.Dependencies == nil {
			t.Dependencies = []model.DependencyEdge{}
		} else {
			t.Dependencies = *p.Dependencies
		}
	}
	if p.Dependents != nil {
		if *p.Dependents == nil {
			t.Dependents = []model.TaskID{}
		} else {
			t.Dependents = *p.Dependents
		}
	}

	return nil
}

func applyStatus(t *model.Task, next model.Status, force bool) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !force && !model.CanTransition(t.Status, next) {
		return ErrInvalidTransition
	}
	prev := t.Status
	t.Status = next

	switch {
	case next == model.StatusCompleted && prev != model.StatusCompleted:
		now := time.Now()
		t.CompletedAt = &now
		t.CompletionPercent = 100
	case next != model.StatusCompleted && prev == model.StatusCompleted:
		t.CompletedAt = nil
	}
	return nil
}

func matchesFilter(t model.Task, f ListFilter) bool {
	switch f.Status {
	case "", "all":
	case "open":
		if t.Status == model.StatusCompleted {
			return false
		}
	case "completed":
		if t.Status != model.StatusCompleted {
			return false
		}
	default:
		if t.Status != model.Status(f.Status) {
			return false
		}
	}

	switch f.Project {
	case "", "any":
	default:
		if t.Project == nil || *t.Project != f.Project {
			return false
		}
	}

	if f.Assignee != "" && t.Assignee != f.Assignee {
		return false
	}
	return true
}
