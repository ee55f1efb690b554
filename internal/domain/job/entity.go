package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusClosed:
		return true
	default:
		return false
	}
}

type Job struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	Title          string
	Description    string
	Location       string
	EmploymentType string
	SalaryMin      *int
	SalaryMax      *int
	Status         Status
	Deadline       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DeadlinePassed reports whether the application window closed before now.
func (j Job) DeadlinePassed(now time.Time) bool {
	return j.Deadline != nil && now.After(*j.Deadline)
}

// Listing is a job joined with the company columns shown next to it.
type Listing struct {
	Job
	CompanyName   string
	CompanyActive bool
}

type ListFilter struct {
	// Terms match when any of them appears in the title, description or
	// company name. Empty matches everything.
	Terms    []string
	Location string
	Now      time.Time
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, j Job) error
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	Update(ctx context.Context, j Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Listing, error)
	// ListOpen returns active jobs of active companies whose deadline has
	// not passed at f.Now.
	ListOpen(ctx context.Context, f ListFilter) ([]Listing, error)
	CountApplications(ctx context.Context, jobID uuid.UUID) (int, error)
}
