package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("event not found")

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCanceled, StatusCompleted},
	StatusConfirmed: {StatusCanceled, StatusCompleted},
}

// CanTransition reports whether an event may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Event struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	CreatedBy     uuid.UUID
	Title         string
	Location      string
	Notes         string
	StartsAt      time.Time
	EndsAt        time.Time
	Status        Status
	Attendees     []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Detail carries the parties of the application the event belongs to.
type Detail struct {
	Event
	CandidateID uuid.UUID
	CompanyID   uuid.UUID
	ManagerID   uuid.UUID
	JobTitle    string
}

type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id uuid.UUID) (Detail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, at time.Time) error
	ListForCandidate(ctx context.Context, userID uuid.UUID) ([]Detail, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID) ([]Detail, error)
}
