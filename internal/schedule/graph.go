package schedule

import (
	"errors"
	"fmt"

	"workplan/internal/model"
	"workplan/internal/task"
)

var (
	ErrSelfDependency  = errors.New("task cannot depend on itself")
	ErrInvalidEdgeType = errors.New("unknown dependency type")
	ErrCycle           = errors.New("dependency would create a cycle")
)

// ResolvedDependency pairs a declared edge with the prerequisite task it
// references.
type ResolvedDependency struct {
	Edge model.DependencyEdge
	Task model.Task
}

// Accessor resolves a task's dependency and dependent edges against the
// store. All graph walks go through ids; nothing holds object references
// across tasks.
type Accessor struct {
	repo task.Repo
}

func NewAccessor(repo task.Repo) *Accessor {
	return &Accessor{repo: repo}
}

// Satisfiable reports whether every declared prerequisite of t resolves and
// is completed. A missing or incomplete prerequisite is ordinary steady
// state, not an error. When satisfiable, the resolved prerequisites are
// returned for anchor computation.
func (a *Accessor) Satisfiable(t model.Task) (bool, []ResolvedDependency, error) {
	resolved := make([]ResolvedDependency, 0, len(t.Dependencies))
	for _, e := range t.Dependencies {
		dep, err := a.repo.Get(e.TaskID)
		if errors.Is(err, task.ErrNotFound) {
			return false, nil, nil
		}
		if err != nil {
			return false, nil, fmt.Errorf("resolve dependency %s: %w", e.TaskID, err)
		}
		if dep.Status != model.StatusCompleted {
			return false, nil, nil
		}
		resolved = append(resolved, ResolvedDependency{Edge: e, Task: dep})
	}
	return true, resolved, nil
}

// Dependents resolves t's reverse edges. Dangling ids are skipped.
func (a *Accessor) Dependents(t model.Task) ([]model.Task, error) {
	out := make([]model.Task, 0, len(t.Dependents))
	for _, id := range t.Dependents {
		d, err := a.repo.Get(id)
		if errors.Is(err, task.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve dependent %s: %w", id, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// wouldCycle reports whether making source depend on target closes a loop,
// i.e. whether target already reaches source through its own dependencies.
func (a *Accessor) wouldCycle(source, target model.TaskID) (bool, error) {
	if source == target {
		return true, nil
	}
	visited := map[model.TaskID]bool{}
	stack := []model.TaskID{target}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		if id == source {
			return true, nil
		}
		t, err := a.repo.Get(id)
		if errors.Is(err, task.ErrNotFound) {
			continue
		}
		if err != nil {
			return false, err
		}
		for _, e := range t.Dependencies {
			if !visited[e.TaskID] {
				stack = append(stack, e.TaskID)
			}
		}
	}
	return false, nil
}
