package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/event"
	"jobboard/internal/domain/notification"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	errNotFound        = usecase.NotFound("event not found")
	errAppNotFound     = usecase.NotFound("application not found")
	errNotManager      = usecase.Forbidden("you do not manage this application")
	errNotParticipant  = usecase.Forbidden("you are not part of this event")
	errApplicationDone = usecase.Rule("application_id", "the application is closed")
)

type ScheduleInput struct {
	Title     string    `json:"title" validate:"notblank,max=255"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Location  string    `json:"location" validate:"max=255"`
	Notes     string    `json:"notes" validate:"max=5000"`
	Attendees []string  `json:"attendees" validate:"max=20,dive,notblank,max=255"`
}

type Service struct {
	events    event.Repository
	apps      application.Repository
	companies company.Repository
	notifier  usecase.Notifier
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(events event.Repository, apps application.Repository, companies company.Repository, notifier usecase.Notifier, logger zerolog.Logger) *Service {
	return &Service{events: events, apps: apps, companies: companies, notifier: notifier, logger: logger, now: time.Now}
}

// Schedule creates an interview on an application the manager owns.
func (s *Service) Schedule(ctx context.Context, managerID, applicationID uuid.UUID, in ScheduleInput) (event.Detail, error) {
	if err := validate.Struct(in); err != nil {
		return event.Detail{}, err
	}
	a, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return event.Detail{}, errAppNotFound
		}
		return event.Detail{}, fmt.Errorf("load application: %w", err)
	}
	if a.ManagerID != managerID {
		return event.Detail{}, errNotManager
	}
	if a.Status.Slug == application.StatusWithdrawn || a.Status.Slug == application.StatusRejected {
		return event.Detail{}, errApplicationDone
	}

	attendees := make([]string, 0, len(in.Attendees))
	for _, at := range in.Attendees {
		attendees = append(attendees, strings.TrimSpace(at))
	}

	now := s.now().UTC()
	e := event.Event{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		CreatedBy:     managerID,
		Title:         strings.TrimSpace(in.Title),
		Location:      strings.TrimSpace(in.Location),
		Notes:         strings.TrimSpace(in.Notes),
		StartsAt:      in.StartsAt.UTC(),
		EndsAt:        in.EndsAt.UTC(),
		Status:        event.StatusScheduled,
		Attendees:     attendees,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return event.Detail{}, fmt.Errorf("create event: %w", err)
	}

	d := event.Detail{Event: e, CandidateID: a.UserID, CompanyID: a.CompanyID, ManagerID: a.ManagerID, JobTitle: a.JobTitle}
	s.notify(ctx, d.CandidateID, notification.TypeEventScheduled, "Interview scheduled",
		fmt.Sprintf("%s for %s on %s", e.Title, d.JobTitle, e.StartsAt.Format("Jan 2, 2006 15:04 MST")), d)
	return d, nil
}

// Confirm is the candidate accepting the invitation.
func (s *Service) Confirm(ctx context.Context, candidateID, id uuid.UUID) (event.Detail, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return event.Detail{}, err
	}
	if d.CandidateID != candidateID {
		return event.Detail{}, errNotParticipant
	}
	if d, err = s.move(ctx, d, event.StatusConfirmed); err != nil {
		return event.Detail{}, err
	}
	s.notify(ctx, d.ManagerID, notification.TypeEventConfirmed, "Interview confirmed",
		fmt.Sprintf("%s for %s was confirmed", d.Title, d.JobTitle), d)
	return d, nil
}

// Cancel may be called by either party; the other one is notified.
func (s *Service) Cancel(ctx context.Context, actorID, id uuid.UUID) (event.Detail, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return event.Detail{}, err
	}
	if d.CandidateID != actorID && d.ManagerID != actorID {
		return event.Detail{}, errNotParticipant
	}
	if d, err = s.move(ctx, d, event.StatusCanceled); err != nil {
		return event.Detail{}, err
	}
	to := d.ManagerID
	if actorID == d.ManagerID {
		to = d.CandidateID
	}
	s.notify(ctx, to, notification.TypeEventCanceled, "Interview canceled",
		fmt.Sprintf("%s for %s was canceled", d.Title, d.JobTitle), d)
	return d, nil
}

func (s *Service) Complete(ctx context.Context, managerID, id uuid.UUID) (event.Detail, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return event.Detail{}, err
	}
	if d.ManagerID != managerID {
		return event.Detail{}, errNotParticipant
	}
	return s.move(ctx, d, event.StatusCompleted)
}

func (s *Service) Get(ctx context.Context, actorID, id uuid.UUID) (event.Detail, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return event.Detail{}, err
	}
	if d.CandidateID != actorID && d.ManagerID != actorID {
		return event.Detail{}, errNotParticipant
	}
	return d, nil
}

// ListForCandidate lists events on the candidate's applications.
func (s *Service) ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]event.Detail, error) {
	out, err := s.events.ListForCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

// ListForManager lists events on jobs of the manager's company.
func (s *Service) ListForManager(ctx context.Context, managerID uuid.UUID) ([]event.Detail, error) {
	c, err := s.companies.GetByOwner(ctx, managerID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return []event.Detail{}, nil
		}
		return nil, fmt.Errorf("load company: %w", err)
	}
	out, err := s.events.ListForCompany(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func (s *Service) move(ctx context.Context, d event.Detail, to event.Status) (event.Detail, error) {
	if !event.CanTransition(d.Status, to) {
		return event.Detail{}, usecase.Rule("status", fmt.Sprintf("a %s event cannot become %s", d.Status, to))
	}
	now := s.now().UTC()
	if err := s.events.UpdateStatus(ctx, d.ID, to, now); err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return event.Detail{}, errNotFound
		}
		return event.Detail{}, fmt.Errorf("update event: %w", err)
	}
	d.Status = to
	d.UpdatedAt = now
	return d, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (event.Detail, error) {
	d, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return event.Detail{}, errNotFound
		}
		return event.Detail{}, fmt.Errorf("load event: %w", err)
	}
	return d, nil
}

func (s *Service) notify(ctx context.Context, to uuid.UUID, typ notification.Type, title, body string, d event.Detail) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notification.Notification{
		UserID: to,
		Type:   typ,
		Title:  title,
		Body:   body,
		Data: map[string]any{
			"event_id":       d.ID.String(),
			"application_id": d.ApplicationID.String(),
			"status":         string(d.Status),
			"starts_at":      d.StartsAt.Format(time.RFC3339),
		},
	})
}
