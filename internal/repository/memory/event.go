package memory

import (
	"context"
	"sort"
	"time"

	"jobboard/internal/domain/event"

	"github.com/google/uuid"
)

type EventRepository struct{ s *Store }

func (r *EventRepository) Create(_ context.Context, e event.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.Attendees = cloneStrings(e.Attendees)
	r.s.events[e.ID] = e
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id uuid.UUID) (event.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return event.Detail{}, event.ErrNotFound
	}
	return r.s.eventDetail(e), nil
}

func (r *EventRepository) UpdateStatus(_ context.Context, id uuid.UUID, status event.Status, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return event.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = at
	r.s.events[id] = e
	return nil
}

func (r *EventRepository) ListForCandidate(_ context.Context, userID uuid.UUID) ([]event.Detail, error) {
	return r.list(func(d event.Detail) bool { return d.CandidateID == userID }), nil
}

func (r *EventRepository) ListForCompany(_ context.Context, companyID uuid.UUID) ([]event.Detail, error) {
	return r.list(func(d event.Detail) bool { return d.CompanyID == companyID }), nil
}

func (r *EventRepository) list(keep func(event.Detail) bool) []event.Detail {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]event.Detail, 0)
	for _, e := range r.s.events {
		d := r.s.eventDetail(e)
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out
}

// eventDetail expects s.mu to be held.
func (s *Store) eventDetail(e event.Event) event.Detail {
	a := s.applications[e.ApplicationID]
	j := s.jobs[a.JobID]
	c := s.companies[j.CompanyID]
	return event.Detail{
		Event:       e,
		CandidateID: a.UserID,
		CompanyID:   c.ID,
		ManagerID:   c.OwnerID,
		JobTitle:    j.Title,
	}
}

var _ event.Repository = (*EventRepository)(nil)
