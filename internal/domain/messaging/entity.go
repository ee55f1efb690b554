package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("conversation not found")
	ErrMessageNotFound = errors.New("message not found")
)

// Conversation is a two-party thread about one job.
type Conversation struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	ManagerID   uuid.UUID
	JobID       uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.CandidateID == userID || c.ManagerID == userID
}

// Counterpart returns the participant that is not userID.
func (c Conversation) Counterpart(userID uuid.UUID) uuid.UUID {
	if c.CandidateID == userID {
		return c.ManagerID
	}
	return c.CandidateID
}

type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	ReceiverID     uuid.UUID
	Body           string
	AttachmentPath string
	AttachmentName string
	IsRead         bool
	ReadAt         *time.Time
	CreatedAt      time.Time
}

type Summary struct {
	Conversation
	JobTitle      string
	CandidateName string
	ManagerName   string
	LastMessage   *Message
	UnreadCount   int
}

type Repository interface {
	// FindOrCreate returns the conversation for (candidate, manager, job),
	// inserting c when none exists. created reports which happened.
	FindOrCreate(ctx context.Context, c Conversation) (conv Conversation, created bool, err error)
	GetByID(ctx context.Context, id uuid.UUID) (Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Summary, error)
	CreateMessage(ctx context.Context, m Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (Message, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]Message, error)
	// MarkRead flags every unread message of the conversation addressed to
	// receiverID as read and returns how many changed.
	MarkRead(ctx context.Context, conversationID, receiverID uuid.UUID, at time.Time) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}
