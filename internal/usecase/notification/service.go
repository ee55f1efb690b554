package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobboard/internal/domain/notification"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventCreated is the websocket event carrying a new notification.
const EventCreated = "notification.created"

var errNotFound = usecase.NotFound("notification not found")

type Service struct {
	repo   notification.Repository
	pusher usecase.Pusher
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo notification.Repository, pusher usecase.Pusher, logger zerolog.Logger) *Service {
	if pusher == nil {
		pusher = usecase.NopPusher{}
	}
	return &Service{repo: repo, pusher: pusher, logger: logger, now: time.Now}
}

// Notify stores n and pushes it to the user's live connections. Failures
// are logged; the action that triggered the notification already happened.
func (s *Service) Notify(ctx context.Context, n notification.Notification) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", n.UserID.String()).
			Str("type", string(n.Type)).
			Msg("store notification failed")
		return
	}
	s.pusher.SendToUser(n.UserID, EventCreated, n)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]notification.Notification, error) {
	limit, offset = usecase.NormalizePage(limit, offset)
	out, err := s.repo.List(ctx, notification.ListFilter{UserID: userID, UnreadOnly: unreadOnly, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one of the user's notifications. Marking an already read
// notification keeps its original read_at.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID, s.now().UTC()); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return errNotFound
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return n, nil
}

var _ usecase.Notifier = (*Service)(nil)
