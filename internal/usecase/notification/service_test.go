package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jobboard/internal/domain/notification"
	"jobboard/internal/repository/memory"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPusher struct {
	mu     sync.Mutex
	events []string
	users  []uuid.UUID
}

func (p *recordingPusher) SendToUser(userID uuid.UUID, event string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.users = append(p.users, userID)
}

type failingRepo struct{ notification.Repository }

func (failingRepo) Create(context.Context, notification.Notification) error {
	return errors.New("db down")
}

func TestNotifyStoresAndPushes(t *testing.T) {
	store := memory.NewStore()
	pusher := &recordingPusher{}
	svc := NewService(store.Notifications(), pusher, zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	svc.Notify(ctx, notification.Notification{UserID: userID, Type: notification.TypeMessageReceived, Title: "New message"})

	list, err := svc.List(ctx, userID, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New message", list[0].Title)
	assert.Equal(t, []string{EventCreated}, pusher.events)
	assert.Equal(t, []uuid.UUID{userID}, pusher.users)
}

func TestNotifyFailureIsNotPushed(t *testing.T) {
	pusher := &recordingPusher{}
	svc := NewService(failingRepo{}, pusher, zerolog.Nop())
	svc.Notify(context.Background(), notification.Notification{UserID: uuid.New()})
	assert.Empty(t, pusher.events)
}

func TestMarkAllReadZeroesUnread(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Notifications(), nil, zerolog.Nop())
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()
	userID, other := uuid.New(), uuid.New()

	for i := 0; i < 3; i++ {
		svc.Notify(ctx, notification.Notification{UserID: userID, Title: "n"})
	}
	svc.Notify(ctx, notification.Notification{UserID: other, Title: "other"})

	list, err := svc.List(ctx, userID, false, 0, 0)
	require.NoError(t, err)
	require.NoError(t, svc.MarkRead(ctx, userID, list[0].ID))

	n, err := svc.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	list, err = svc.List(ctx, userID, false, 0, 0)
	require.NoError(t, err)
	for _, item := range list {
		require.NotNil(t, item.ReadAt)
		assert.Equal(t, now, *item.ReadAt)
	}

	unread, err := svc.List(ctx, userID, true, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)

	count, err = svc.UnreadCount(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "other users are untouched")
}

func TestMarkReadOthersNotification(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Notifications(), nil, zerolog.Nop())
	ctx := context.Background()
	owner := uuid.New()
	svc.Notify(ctx, notification.Notification{UserID: owner})
	list, err := svc.List(ctx, owner, false, 0, 0)
	require.NoError(t, err)

	err = svc.MarkRead(ctx, uuid.New(), list[0].ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}
