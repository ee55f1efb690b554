package memory

import (
	"context"
	"sort"
	"time"

	"jobboard/internal/domain/notification"

	"github.com/google/uuid"
)

type NotificationRepository struct{ s *Store }

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications = append(r.s.notifications, n)
	return nil
}

func (r *NotificationRepository) List(_ context.Context, f notification.ListFilter) ([]notification.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]notification.Notification, 0)
	for _, n := range r.s.notifications {
		if n.UserID != f.UserID {
			continue
		}
		if f.UnreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, userID uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		n := &r.s.notifications[i]
		if n.ID != id || n.UserID != userID {
			continue
		}
		if n.ReadAt == nil {
			readAt := at
			n.ReadAt = &readAt
		}
		return nil
	}
	return notification.ErrNotFound
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.notifications {
		item := &r.s.notifications[i]
		if item.UserID == userID && item.ReadAt == nil {
			readAt := at
			item.ReadAt = &readAt
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepository) UnreadCount(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, item := range r.s.notifications {
		if item.UserID == userID && item.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

var _ notification.Repository = (*NotificationRepository)(nil)
