package project

import (
	"time"

	"github.com/google/uuid"
)

type ProjectID string

// Project is the scheduling window tasks are reported against. Team
// membership and permissions live with the external collaborators; the
// core only consumes the window.
type Project struct {
	ID          ProjectID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewProject(name, description string, start, end time.Time) Project {
	now := time.Now()
	return Project{
		ID:          ProjectID("proj_" + uuid.NewString()),
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *Project) touch() {
	p.UpdatedAt = time.Now()
}

func (p *Project) Archive() {
	p.Archived = true
	p.touch()
}

func (p *Project) Unarchive() {
	p.Archived = false
	p.touch()
}

// Window returns the project's reporting window.
func (p *Project) Window() (time.Time, time.Time) {
	return p.StartDate, p.EndDate
}
