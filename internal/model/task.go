package model

import (
	"time"
)

type TaskID string

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusNeedsWork  Status = "needs_work"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusNeedsWork, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a status change is allowed by the task
// lifecycle. Role policy (who may request the change) is the caller's
// concern; this only checks the shape of the lifecycle itself.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusTodo:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusReview
	case StatusReview:
		return to == StatusCompleted || to == StatusNeedsWork
	case StatusNeedsWork:
		return to == StatusInProgress
	case StatusCompleted:
		return false
	default:
		return false
	}
}

// DependencyType describes how a prerequisite constrains a dependent task's
// schedule. FinishToStart is the default and by far the most common.
type DependencyType string

const (
	FinishToStart  DependencyType = "finish_to_start"
	StartToStart   DependencyType = "start_to_start"
	FinishToFinish DependencyType = "finish_to_finish"
	StartToFinish  DependencyType = "start_to_finish"
)

func (d DependencyType) Valid() bool {
	switch d {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	default:
		return false
	}
}

// DependencyEdge is a directed edge from the owning task to a prerequisite.
type DependencyEdge struct {
	TaskID  TaskID         `json:"taskId"`
	Type    DependencyType `json:"type"`
	LagDays int            `json:"lagDays"`
}

type TimeEntry struct {
	User            string    `json:"user"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

type Task struct {
	ID          TaskID  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Project     *string `json:"project,omitempty"`
	Assignee    string  `json:"assignee,omitempty"`
	Status      Status  `json:"status"`

	EstimatedHours    float64 `json:"estimatedHours"`
	LoggedHours       float64 `json:"loggedHours"`
	CompletionPercent int     `json:"completionPercent"`

	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Dependencies []DependencyEdge `json:"dependencies,omitempty"`
	Dependents   []TaskID         `json:"dependents,omitempty"`
	TimeEntries  []TimeEntry      `json:"timeEntries,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DependencyOn returns the edge targeting id, if one exists.
func (t *Task) DependencyOn(id TaskID) (DependencyEdge, bool) {
	for _, e := range t.Dependencies {
		if e.TaskID == id {
			return e, true
		}
	}
	return DependencyEdge{}, false
}

func (t *Task) HasDependencyOn(id TaskID) bool {
	_, ok := t.DependencyOn(id)
	return ok
}

func (t *Task) HasDependent(id TaskID) bool {
	for _, d := range t.Dependents {
		if d == id {
			return true
		}
	}
	return false
}

// SetDependency appends the edge, or replaces the existing edge to the same
// target (the newer type/lag wins; edges are deduplicated by target id).
func (t *Task) SetDependency(e DependencyEdge) {
	for i, cur := range t.Dependencies {
		if cur.TaskID == e.TaskID {
			t.Dependencies[i] = e
			return
		}
	}
	t.Dependencies = append(t.Dependencies, e)
}

// RemoveDependencyOn drops the edge targeting id. Reports whether an edge
// was present.
func (t *Task) RemoveDependencyOn(id TaskID) bool {
	for i, e := range t.Dependencies {
		if e.TaskID == id {
			t.Dependencies = append(t.Dependencies[:i], t.Dependencies[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Task) AddDependent(id TaskID) {
	if id == "" || t.HasDependent(id) {
		return
	}
	t.Dependents = append(t.Dependents, id)
}

func (t *Task) RemoveDependent(id TaskID) bool {
	for i, d := range t.Dependents {
		if d == id {
			t.Dependents = append(t.Dependents[:i], t.Dependents[i+1:]...)
			return true
		}
	}
	return false
}

// DefaultEndDate derives the end date from the start date and the estimate
// when no explicit end date was supplied.
func DefaultEndDate(start time.Time, estimatedHours float64) time.Time {
	return start.Add(time.Duration(estimatedHours * float64(time.Hour)))
}
