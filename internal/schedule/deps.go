package schedule

import (
	"errors"
	"fmt"
	"log"

	"workplan/internal/model"
	"workplan/internal/task"
)

// Graph owns the dependency mutation operations. Every operation keeps
// the bidirectional invariant: task A carries an edge to B exactly when
// B's dependents contain A.
type Graph struct {
	repo task.Repo
	acc  *Accessor
	log  *log.Logger
}

func NewGraph(repo task.Repo, logger *log.Logger) *Graph {
	if logger == nil {
		logger = log.Default()
	}
	return &Graph{repo: repo, acc: NewAccessor(repo), log: logger}
}

// AddDependencies validates and records the given edges on the task.
// Validation is strict and happens before any write: a missing target,
// self-edge, bad type, or cycle rejects the whole batch with no partial
// state change. Edges are deduplicated by target id; re-adding an edge
// replaces its type and lag.
func (g *Graph) AddDependencies(taskID model.TaskID, edges []model.DependencyEdge) (model.Task, error) {
	t, err := g.repo.Get(taskID)
	if err != nil {
		return model.Task{}, err
	}

	// Work on a copy; the caller's slice is never written to.
	edges = append([]model.DependencyEdge(nil), edges...)
	for i, e := range edges {
		if e.Type == "" {
			edges[i].Type = model.FinishToStart
			e.Type = model.FinishToStart
		}
		if !e.Type.Valid() {
			return model.Task{}, fmt.Errorf("edge %s: %w", e.TaskID, ErrInvalidEdgeType)
		}
		if e.TaskID == "" || e.TaskID == taskID {
			return model.Task{}, ErrSelfDependency
		}
		if _, err := g.repo.Get(e.TaskID); err != nil {
			return model.Task{}, fmt.Errorf("dependency target %s: %w", e.TaskID, err)
		}
		cyclic, err := g.acc.wouldCycle(taskID, e.TaskID)
		if err != nil {
			return model.Task{}, err
		}
		if cyclic {
			return model.Task{}, fmt.Errorf("edge %s -> %s: %w", taskID, e.TaskID, ErrCycle)
		}
	}

	// Reverse edges first. If the forward write below fails, the reverse
	// entries are unwound so neither side survives alone.
	written := make([]model.TaskID, 0, len(edges))
	for _, e := range edges {
		tgt, err := g.repo.Get(e.TaskID)
		if err != nil {
			g.unwindDependents(taskID, written)
			return model.Task{}, fmt.Errorf("dependency target %s: %w", e.TaskID, err)
		}
		if tgt.HasDependent(taskID) {
			continue
		}
		tgt.AddDependent(taskID)
		if _, err := g.repo.Update(tgt.ID, task.Patch{Dependents: &tgt.Dependents}); err != nil {
			g.unwindDependents(taskID, written)
			return model.Task{}, fmt.Errorf("update dependents of %s: %w", tgt.ID, err)
		}
		written = append(written, tgt.ID)
	}

	for _, e := range edges {
		t.SetDependency(e)
	}
	updated, err := g.repo.Update(t.ID, task.Patch{Dependencies: &t.Dependencies})
	if err != nil {
		g.unwindDependents(taskID, written)
		return model.Task{}, fmt.Errorf("update dependencies of %s: %w", t.ID, err)
	}
	return updated, nil
}

func (g *Graph) unwindDependents(dependent model.TaskID, targets []model.TaskID) {
	for _, id := range targets {
		tgt, err := g.repo.Get(id)
		if err != nil {
			continue
		}
		if tgt.RemoveDependent(dependent) {
			if _, err := g.repo.Update(id, task.Patch{Dependents: &tgt.Dependents}); err != nil {
				g.log.Printf("schedule: unwind dependent %s on %s: %v", dependent, id, err)
			}
		}
	}
}

// RemoveDependency drops the edge from taskID to targetID and the matching
// reverse entry. Removing an edge that does not exist is a no-op. If the
// reverse side cannot be updated, the already-removed forward edge is
// restored so a reported failure leaves neither side changed.
func (g *Graph) RemoveDependency(taskID, targetID model.TaskID) (model.Task, error) {
	t, err := g.repo.Get(taskID)
	if err != nil {
		return model.Task{}, err
	}

	prior := append([]model.DependencyEdge(nil), t.Dependencies...)
	removed := t.RemoveDependencyOn(targetID)
	if removed {
		t, err = g.repo.Update(t.ID, task.Patch{Dependencies: &t.Dependencies})
		if err != nil {
			return model.Task{}, err
		}
	}

	restoreForward := func() {
		if !removed {
			return
		}
		if _, err := g.repo.Update(taskID, task.Patch{Dependencies: &prior}); err != nil {
			g.log.Printf("schedule: restore edge %s -> %s: %v", taskID, targetID, err)
		}
	}

	tgt, err := g.repo.Get(targetID)
	if errors.Is(err, task.ErrNotFound) {
		return t, nil
	}
	if err != nil {
		restoreForward()
		return model.Task{}, err
	}
	if tgt.RemoveDependent(taskID) {
		if _, err := g.repo.Update(tgt.ID, task.Patch{Dependents: &tgt.Dependents}); err != nil {
			restoreForward()
			return model.Task{}, err
		}
	}
	return t, nil
}

// DeleteTask removes the task and prunes every edge that references it,
// in both directions. Neighbor pruning is best-effort; a neighbor that
// fails to update is logged and the deletion continues.
func (g *Graph) DeleteTask(id model.TaskID) error {
	t, err := g.repo.Get(id)
	if err != nil {
		return err
	}

	neighbors := map[model.TaskID]bool{}
	for _, e := range t.Dependencies {
		neighbors[e.TaskID] = true
	}
	for _, d := range t.Dependents {
		neighbors[d] = true
	}

	for nid := range neighbors {
		n, err := g.repo.Get(nid)
		if errors.Is(err, task.ErrNotFound) {
			continue
		}
		if err != nil {
			g.log.Printf("schedule: prune neighbor %s of deleted %s: %v", nid, id, err)
			continue
		}
		changedDeps := n.RemoveDependencyOn(id)
		changedRev := n.RemoveDependent(id)
		if !changedDeps && !changedRev {
			continue
		}
		p := task.Patch{}
		if changedDeps {
			p.Dependencies = &n.Dependencies
		}
		if changedRev {
			p.Dependents = &n.Dependents
		}
		if _, err := g.repo.Update(nid, p); err != nil {
			g.log.Printf("schedule: prune neighbor %s of deleted %s: %v", nid, id, err)
		}
	}

	return g.repo.Delete(id)
}

// Heal scans the whole store and repairs edge inconsistencies: references
// to tasks that no longer exist are pruned, and missing reverse entries
// are restored. Returns the number of tasks repaired.
func (g *Graph) Heal() (int, error) {
	all, err := g.repo.List(task.ListFilter{})
	if err != nil {
		return 0, err
	}

	byID := make(map[model.TaskID]model.Task, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}

	repaired := 0
	for _, cur := range all {
		// Read through byID so repairs made while processing earlier
		// tasks are not clobbered by this snapshot.
		t := byID[cur.ID]
		changed := false

		deps := t.Dependencies[:0]
		for _, e := range t.Dependencies {
			if _, ok := byID[e.TaskID]; ok {
				deps = append(deps, e)
			} else {
				changed = true
			}
		}
		t.Dependencies = deps

		revs := t.Dependents[:0]
		for _, id := range t.Dependents {
			d, ok := byID[id]
			if ok && d.HasDependencyOn(t.ID) {
				revs = append(revs, id)
			} else {
				changed = true
			}
		}
		t.Dependents = revs

		// Restore reverse entries demanded by surviving forward edges.
		for _, e := range t.Dependencies {
			tgt := byID[e.TaskID]
			if !tgt.HasDependent(t.ID) {
				tgt.AddDependent(t.ID)
				byID[e.TaskID] = tgt
				if _, err := g.repo.Update(tgt.ID, task.Patch{Dependents: &tgt.Dependents}); err != nil {
					g.log.Printf("schedule: heal dependents of %s: %v", tgt.ID, err)
				} else {
					repaired++
				}
			}
		}

		if changed {
			if _, err := g.repo.Update(t.ID, task.Patch{
				Dependencies: &t.Dependencies,
				Dependents:   &t.Dependents,
			}); err != nil {
				g.log.Printf("schedule: heal %s: %v", t.ID, err)
				continue
			}
			byID[t.ID] = t
			repaired++
		}
	}
	return repaired, nil
}
