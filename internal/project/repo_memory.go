package project

import (
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("project not found")

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[ProjectID]Project
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		m: make(map[ProjectID]Project),
	}
}

func (r *MemoryRepo) Create(name, description string, start, end time.Time) (Project, error) {
	p := NewProject(name, description, start, end)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.m[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) Get(id ProjectID) (Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.m[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) List() ([]Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]Project, 0, len(r.m))
	for _, p := range r.m {
		if !p.Archived {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (r *MemoryRepo) Update(p Project) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.m[p.ID]; !exists {
		return Project{}, ErrNotFound
	}

	p.touch()
	r.m[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) Delete(id ProjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.m, id)
	return nil
}
