package usecase

import (
	"context"
	"time"

	"jobboard/internal/domain/notification"

	"github.com/google/uuid"
)

// Cache is the JSON cache used for read-heavy public listings.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// Pusher delivers realtime events to a user's open connections.
type Pusher interface {
	SendToUser(userID uuid.UUID, event string, data any)
}

// Notifier records a notification for a user and pushes it. Implementations
// log failures instead of returning them.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

type NopPusher struct{}

func (NopPusher) SendToUser(uuid.UUID, string, any) {}
