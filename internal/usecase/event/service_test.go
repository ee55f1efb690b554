package event

import (
	"context"
	"testing"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/event"
	"jobboard/internal/domain/notification"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/repository/memory"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct{ sent []notification.Notification }

func (n *captureNotifier) Notify(_ context.Context, item notification.Notification) {
	n.sent = append(n.sent, item)
}

type fixture struct {
	svc       *Service
	notes     *captureNotifier
	candidate uuid.UUID
	manager   uuid.UUID
	appID     uuid.UUID
	store     *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.SeedReference()

	cand := store.AddUser(user.RoleCandidate, "Cai")
	mgr := store.AddUser(user.RoleManager, "Mia")
	c := store.AddCompany(mgr.ID, "Acme")
	j := store.AddJob(c.ID, "Go Engineer", nil)

	pending, err := store.Reference().StatusBySlug(ctx, application.StatusPending)
	require.NoError(t, err)
	applied, err := store.Reference().StageBySlug(ctx, application.StageApplied)
	require.NoError(t, err)
	a := application.Application{ID: uuid.New(), UserID: cand.ID, JobID: j.ID, StatusID: pending.ID, StageID: applied.ID, AppliedAt: time.Now()}
	require.NoError(t, store.Applications().CreateWithHistory(ctx, a, application.HistoryEntry{ID: uuid.New(), ApplicationID: a.ID, ToStageID: applied.ID, ToStatusID: pending.ID}))

	notes := &captureNotifier{}
	return fixture{
		svc:       NewService(store.Events(), store.Applications(), store.Companies(), notes, zerolog.Nop()),
		notes:     notes,
		candidate: cand.ID,
		manager:   mgr.ID,
		appID:     a.ID,
		store:     store,
	}
}

func (f fixture) schedule(t *testing.T) event.Detail {
	t.Helper()
	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	d, err := f.svc.Schedule(context.Background(), f.manager, f.appID, ScheduleInput{
		Title:     "Technical interview",
		StartsAt:  start,
		EndsAt:    start.Add(time.Hour),
		Attendees: []string{"cto@acme.test"},
	})
	require.NoError(t, err)
	return d
}

func TestSchedule(t *testing.T) {
	f := newFixture(t)
	d := f.schedule(t)

	assert.Equal(t, event.StatusScheduled, d.Status)
	assert.Equal(t, f.candidate, d.CandidateID)
	require.Len(t, f.notes.sent, 1)
	assert.Equal(t, f.candidate, f.notes.sent[0].UserID)
	assert.Equal(t, notification.TypeEventScheduled, f.notes.sent[0].Type)

	list, err := f.svc.ListForCandidate(context.Background(), f.candidate)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = f.svc.ListForManager(context.Background(), f.manager)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestScheduleValidation(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(time.Hour)

	_, err := f.svc.Schedule(context.Background(), f.manager, f.appID, ScheduleInput{Title: "x", StartsAt: start, EndsAt: start.Add(-time.Minute)})
	var fe validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "ends_at")

	_, err = f.svc.Schedule(context.Background(), uuid.New(), f.appID, ScheduleInput{Title: "x", StartsAt: start, EndsAt: start.Add(time.Hour)})
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name  string
		steps func(f fixture, id uuid.UUID) error
		want  event.Status
		err   error
	}{
		{
			name: "candidate confirms",
			steps: func(f fixture, id uuid.UUID) error {
				_, err := f.svc.Confirm(context.Background(), f.candidate, id)
				return err
			},
			want: event.StatusConfirmed,
		},
		{
			name: "manager completes confirmed",
			steps: func(f fixture, id uuid.UUID) error {
				ctx := context.Background()
				if _, err := f.svc.Confirm(ctx, f.candidate, id); err != nil {
					return err
				}
				_, err := f.svc.Complete(ctx, f.manager, id)
				return err
			},
			want: event.StatusCompleted,
		},
		{
			name: "canceled cannot be confirmed",
			steps: func(f fixture, id uuid.UUID) error {
				ctx := context.Background()
				if _, err := f.svc.Cancel(ctx, f.manager, id); err != nil {
					return err
				}
				_, err := f.svc.Confirm(ctx, f.candidate, id)
				return err
			},
			want: event.StatusCanceled,
			err:  usecase.ErrRule,
		},
		{
			name: "manager cannot confirm",
			steps: func(f fixture, id uuid.UUID) error {
				_, err := f.svc.Confirm(context.Background(), f.manager, id)
				return err
			},
			want: event.StatusScheduled,
			err:  usecase.ErrForbidden,
		},
		{
			name: "candidate cannot complete",
			steps: func(f fixture, id uuid.UUID) error {
				_, err := f.svc.Complete(context.Background(), f.candidate, id)
				return err
			},
			want: event.StatusScheduled,
			err:  usecase.ErrForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			d := f.schedule(t)
			err := tt.steps(f, d.ID)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			got, err := f.svc.Get(context.Background(), f.candidate, d.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestCancelNotifiesCounterpart(t *testing.T) {
	f := newFixture(t)
	d := f.schedule(t)
	f.notes.sent = nil

	_, err := f.svc.Cancel(context.Background(), f.candidate, d.ID)
	require.NoError(t, err)
	require.Len(t, f.notes.sent, 1)
	assert.Equal(t, f.manager, f.notes.sent[0].UserID)
	assert.Equal(t, notification.TypeEventCanceled, f.notes.sent[0].Type)
}
