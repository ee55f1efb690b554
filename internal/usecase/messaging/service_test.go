package messaging

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/notification"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/storage"
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

type capturePusher struct {
	to     []uuid.UUID
	events []string
}

func (p *capturePusher) SendToUser(userID uuid.UUID, event string, _ any) {
	p.to = append(p.to, userID)
	p.events = append(p.events, event)
}

type fixture struct {
	svc       *Service
	store     *memory.Store
	notes     *captureNotifier
	pusher    *capturePusher
	candidate user.User
	manager   user.User
	jobID     uuid.UUID
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
	pusher := &capturePusher{}
	svc := NewService(Deps{
		Conversations: store.Messaging(),
		Jobs:          store.Jobs(),
		Companies:     store.Companies(),
		Applications:  store.Applications(),
		Users:         store.Users(),
		Storage:       storage.New(storage.NewDisk(t.TempDir(), "/storage"), nil),
		Notifier:      notes,
		Pusher:        pusher,
		Logger:        zerolog.Nop(),
	})
	return fixture{svc: svc, store: store, notes: notes, pusher: pusher, candidate: cand, manager: mgr, jobID: j.ID}
}

func TestStartIsFindOrCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conv, created, err := f.svc.Start(ctx, f.candidate.ID, user.RoleCandidate, StartInput{JobID: f.jobID})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, f.manager.ID, conv.ManagerID)

	again, created, err := f.svc.Start(ctx, f.manager.ID, user.RoleManager, StartInput{JobID: f.jobID, CandidateID: &f.candidate.ID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv.ID, again.ID)
}

func TestStartRequiresApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stranger := f.store.AddUser(user.RoleCandidate, "Stranger")

	_, _, err := f.svc.Start(ctx, stranger.ID, user.RoleCandidate, StartInput{JobID: f.jobID})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	_, _, err = f.svc.Start(ctx, f.manager.ID, user.RoleManager, StartInput{JobID: f.jobID, CandidateID: &stranger.ID})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	otherManager := f.store.AddUser(user.RoleManager, "Other")
	_, _, err = f.svc.Start(ctx, otherManager.ID, user.RoleManager, StartInput{JobID: f.jobID, CandidateID: &f.candidate.ID})
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestSendAndRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv, _, err := f.svc.Start(ctx, f.candidate.ID, user.RoleCandidate, StartInput{JobID: f.jobID})
	require.NoError(t, err)

	_, err = f.svc.Send(ctx, f.candidate.ID, conv.ID, SendInput{Body: "  "}, nil)
	assert.ErrorIs(t, err, usecase.ErrRule)

	m, err := f.svc.Send(ctx, f.candidate.ID, conv.ID, SendInput{Body: "Hello!"}, nil)
	require.NoError(t, err)
	assert.Equal(t, f.manager.ID, m.ReceiverID)
	assert.Equal(t, []uuid.UUID{f.manager.ID}, f.pusher.to)
	assert.Equal(t, []string{EventMessageCreated}, f.pusher.events)
	require.Len(t, f.notes.sent, 1)
	assert.Equal(t, notification.TypeMessageReceived, f.notes.sent[0].Type)
	assert.Equal(t, "New message from Cai", f.notes.sent[0].Title)

	_, err = f.svc.Send(ctx, f.candidate.ID, conv.ID, SendInput{}, &usecase.File{Name: "notes.txt", Size: 5, Content: strings.NewReader("hello")})
	require.NoError(t, err)

	unread, err := f.svc.UnreadCount(ctx, f.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	summaries, err := f.svc.List(ctx, f.manager.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].UnreadCount)
	require.NotNil(t, summaries[0].LastMessage)

	// The sender reading the thread does not clear the receiver's unread.
	_, err = f.svc.Messages(ctx, f.candidate.ID, conv.ID)
	require.NoError(t, err)
	unread, err = f.svc.UnreadCount(ctx, f.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	msgs, err := f.svc.Messages(ctx, f.manager.ID, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.True(t, msg.IsRead)
		assert.NotNil(t, msg.ReadAt)
	}
	assert.Equal(t, "notes.txt", msgs[1].AttachmentName)
	assert.True(t, strings.HasPrefix(msgs[1].AttachmentPath, storage.PrefixMessageAttachments+"/"))

	unread, err = f.svc.UnreadCount(ctx, f.manager.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestOutsiderCannotReadOrSend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv, _, err := f.svc.Start(ctx, f.candidate.ID, user.RoleCandidate, StartInput{JobID: f.jobID})
	require.NoError(t, err)
	outsider := f.store.AddUser(user.RoleCandidate, "Out")

	_, err = f.svc.Messages(ctx, outsider.ID, conv.ID)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	_, err = f.svc.Send(ctx, outsider.ID, conv.ID, SendInput{Body: "hi"}, nil)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	_, err = f.svc.Messages(ctx, f.candidate.ID, uuid.New())
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestAttachmentDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv, _, err := f.svc.Start(ctx, f.candidate.ID, user.RoleCandidate, StartInput{JobID: f.jobID})
	require.NoError(t, err)

	withFile, err := f.svc.Send(ctx, f.candidate.ID, conv.ID, SendInput{}, &usecase.File{Name: "notes.txt", Size: 5, Content: strings.NewReader("hello")})
	require.NoError(t, err)
	plain, err := f.svc.Send(ctx, f.manager.ID, conv.ID, SendInput{Body: "thanks"}, nil)
	require.NoError(t, err)

	dl, err := f.svc.Attachment(ctx, f.manager.ID, withFile.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(dl.Content)
	require.NoError(t, err)
	require.NoError(t, dl.Content.Close())
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "notes.txt", dl.Name)
	assert.Equal(t, "text/plain", dl.ContentType)

	outsider := f.store.AddUser(user.RoleCandidate, "Out")
	_, err = f.svc.Attachment(ctx, outsider.ID, withFile.ID)
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	_, err = f.svc.Attachment(ctx, f.candidate.ID, plain.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	_, err = f.svc.Attachment(ctx, f.candidate.ID, uuid.New())
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestHTMLAttachmentIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv, _, err := f.svc.Start(ctx, f.candidate.ID, user.RoleCandidate, StartInput{JobID: f.jobID})
	require.NoError(t, err)

	page := "<html><script>alert(document.cookie)</script></html>"
	_, err = f.svc.Send(ctx, f.candidate.ID, conv.ID, SendInput{}, &usecase.File{Name: "x.html", Size: int64(len(page)), Content: strings.NewReader(page)})
	assert.ErrorIs(t, err, usecase.ErrRule)
}
