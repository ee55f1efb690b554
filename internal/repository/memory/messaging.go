package memory

import (
	"context"
	"sort"
	"time"

	"jobboard/internal/domain/messaging"

	"github.com/google/uuid"
)

type MessagingRepository struct{ s *Store }

func (r *MessagingRepository) FindOrCreate(_ context.Context, c messaging.Conversation) (messaging.Conversation, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.conversations {
		if existing.CandidateID == c.CandidateID && existing.ManagerID == c.ManagerID && existing.JobID == c.JobID {
			return existing, false, nil
		}
	}
	c.UpdatedAt = c.CreatedAt
	r.s.conversations[c.ID] = c
	return c, true, nil
}

func (r *MessagingRepository) GetByID(_ context.Context, id uuid.UUID) (messaging.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.conversations[id]
	if !ok {
		return messaging.Conversation{}, messaging.ErrNotFound
	}
	return c, nil
}

func (r *MessagingRepository) ListForUser(_ context.Context, userID uuid.UUID) ([]messaging.Summary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]messaging.Summary, 0)
	for _, c := range r.s.conversations {
		if !c.HasParticipant(userID) {
			continue
		}
		s := messaging.Summary{
			Conversation:  c,
			JobTitle:      r.s.jobs[c.JobID].Title,
			CandidateName: r.s.users[c.CandidateID].FullName,
			ManagerName:   r.s.users[c.ManagerID].FullName,
		}
		for i := range r.s.messages {
			m := r.s.messages[i]
			if m.ConversationID != c.ID {
				continue
			}
			if m.ReceiverID == userID && !m.IsRead {
				s.UnreadCount++
			}
			if s.LastMessage == nil || !m.CreatedAt.Before(s.LastMessage.CreatedAt) {
				last := m
				s.LastMessage = &last
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MessagingRepository) CreateMessage(_ context.Context, m messaging.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.conversations[m.ConversationID]
	if !ok {
		return messaging.ErrNotFound
	}
	r.s.messages = append(r.s.messages, m)
	c.UpdatedAt = m.CreatedAt
	r.s.conversations[c.ID] = c
	return nil
}

func (r *MessagingRepository) GetMessage(_ context.Context, id uuid.UUID) (messaging.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return messaging.Message{}, messaging.ErrMessageNotFound
}

func (r *MessagingRepository) ListMessages(_ context.Context, conversationID uuid.UUID) ([]messaging.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]messaging.Message, 0)
	for _, m := range r.s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MessagingRepository) MarkRead(_ context.Context, conversationID, receiverID uuid.UUID, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.messages {
		m := &r.s.messages[i]
		if m.ConversationID == conversationID && m.ReceiverID == receiverID && !m.IsRead {
			readAt := at
			m.IsRead = true
			m.ReadAt = &readAt
			n++
		}
	}
	return n, nil
}

func (r *MessagingRepository) UnreadCount(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, m := range r.s.messages {
		if m.ReceiverID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

var _ messaging.Repository = (*MessagingRepository)(nil)
