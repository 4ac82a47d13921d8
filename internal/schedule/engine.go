package schedule

import (
	"fmt"
	"log"
	"time"

	"workplan/internal/model"
	"workplan/internal/task"
)

// Engine recomputes dependent task schedules when a prerequisite
// completes. Propagation is a single level deep: a rescheduled dependent
// does not itself trigger another pass, only its own later completion
// does.
type Engine struct {
	repo task.Repo
	acc  *Accessor
	log  *log.Logger
}

func NewEngine(repo task.Repo, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{repo: repo, acc: NewAccessor(repo), log: logger}
}

// OnTaskCompleted runs one propagation pass for a task that has just been
// persisted as completed. Each dependent is handled independently and
// best-effort: a dependent that cannot be resolved or updated is logged
// and skipped, never aborting the pass. The triggering completion is
// already committed, so there is nothing to roll back.
func (e *Engine) OnTaskCompleted(completed model.Task) {
	for _, depID := range completed.Dependents {
		if err := e.reschedule(depID); err != nil {
			e.log.Printf("schedule: skip dependent %s of %s: %v", depID, completed.ID, err)
		}
	}
}

// reschedule recomputes one dependent's start date, provided all of its
// prerequisites are completed. An unmet or missing prerequisite is
// ordinary steady state and leaves the dependent untouched.
func (e *Engine) reschedule(id model.TaskID) error {
	d, err := e.repo.Get(id)
	if err != nil {
		return err
	}
	if len(d.Dependencies) == 0 {
		return nil
	}

	ok, deps, err := e.acc.Satisfiable(d)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	newStart, ok := earliestStart(deps)
	if !ok {
		return nil
	}

	// Plain field update. Deliberately not routed through the completion
	// hook: date adjustment must not cascade.
	if _, err := e.repo.Update(d.ID, task.Patch{StartDate: &newStart}); err != nil {
		return fmt.Errorf("update start date: %w", err)
	}
	return nil
}

// earliestStart computes the dependent's constrained start date: the
// latest of anchor(edge) + lag across all prerequisites. Finish-anchored
// edge types take the prerequisite's completion timestamp, start-anchored
// types its start date.
func earliestStart(deps []ResolvedDependency) (time.Time, bool) {
	var best time.Time
	found := false
	for _, rd := range deps {
		anchor, ok := edgeAnchor(rd)
		if !ok {
			continue
		}
		candidate := anchor.AddDate(0, 0, rd.Edge.LagDays)
		if !found || candidate.After(best) {
			best = candidate
			found = true
		}
	}
	return best, found
}

func edgeAnchor(rd ResolvedDependency) (time.Time, bool) {
	switch rd.Edge.Type {
	case model.StartToStart, model.StartToFinish:
		if rd.Task.StartDate.IsZero() {
			return time.Time{}, false
		}
		return rd.Task.StartDate, true
	default:
		// FinishToStart, FinishToFinish. Prerequisites here are always
		// completed; CompletedAt can still be absent on imported data,
		// in which case the planned end date stands in.
		if rd.Task.CompletedAt != nil {
			return *rd.Task.CompletedAt, true
		}
		if !rd.Task.EndDate.IsZero() {
			return rd.Task.EndDate, true
		}
		return time.Time{}, false
	}
}
