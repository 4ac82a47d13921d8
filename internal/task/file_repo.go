package task

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"workplan/internal/model"
)

type fileState struct {
	Tasks map[model.TaskID]model.Task `json:"tasks"`
}

func newFileState() fileState {
	return fileState{Tasks: map[model.TaskID]model.Task{}}
}

// FileRepo is a task repository persisted as a single JSON file. Every
// mutation rewrites the file under the lock, so a reader never observes
// a partially written task.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path: filepath.Join(dataDir, "tasks.json"),
		s:    newFileState(),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.s = newFileState()
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Tasks == nil {
		loaded.Tasks = map[model.TaskID]model.Task{}
	}
	r.s = loaded
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o644)
}

func (r *FileRepo) Create(t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if t.ID == "" {
		t.ID = newID()
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	normalizeTask(&t)

	r.s.Tasks[t.ID] = t
	if err := r.saveLocked(); err != nil {
		delete(r.s.Tasks, t.ID)
		return model.Task{}, err
	}
	return t, nil
}

func (r *FileRepo) Get(id model.TaskID) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.s.Tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	normalizeTask(&t)
	return t, nil
}

func (r *FileRepo) Update(id model.TaskID, p Patch) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.s.Tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	prev := t

	if err := applyPatch(&t, p); err != nil {
		return model.Task{}, err
	}
	t.UpdatedAt = time.Now()
	normalizeTask(&t)

	r.s.Tasks[id] = t
	if err := r.saveLocked(); err != nil {
		r.s.Tasks[id] = prev
		return model.Task{}, err
	}
	return t, nil
}

func (r *FileRepo) List(filter ListFilter) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Task, 0, len(r.s.Tasks))
	for _, t := range r.s.Tasks {
		if matchesFilter(t, filter) {
			normalizeTask(&t)
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *FileRepo) Delete(id model.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.s.Tasks[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.s.Tasks, id)
	if err := r.saveLocked(); err != nil {
		r.s.Tasks[id] = t
		return err
	}
	return nil
}

func (r *FileRepo) AddTimeEntry(id model.TaskID, entry model.TimeEntry) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.s.Tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	if entry.DurationMinutes <= 0 {
		return model.Task{}, ErrInvalidInterval
	}
	prev := t

	t.TimeEntries = append(t.TimeEntries, entry)
	t.UpdatedAt = time.Now()
	normalizeTask(&t)

	r.s.Tasks[id] = t
	if err := r.saveLocked(); err != nil {
		r.s.Tasks[id] = prev
		return model.Task{}, err
	}
	return t, nil
}
