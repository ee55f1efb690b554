package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeApplicationSubmitted     Type = "application.submitted"
	TypeApplicationStatusChanged Type = "application.status_changed"
	TypeApplicationWithdrawn     Type = "application.withdrawn"
	TypeMessageReceived          Type = "message.received"
	TypeEventScheduled           Type = "event.scheduled"
	TypeEventConfirmed           Type = "event.confirmed"
	TypeEventCanceled            Type = "event.canceled"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Body      string
	Data      map[string]any
	ReadAt    *time.Time
	CreatedAt time.Time
}

type ListFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, n Notification) error
	List(ctx context.Context, f ListFilter) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}
