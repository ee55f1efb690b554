package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/messaging"
	"jobboard/internal/domain/notification"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventMessageCreated is pushed to the receiver of a new message.
const EventMessageCreated = "message.created"

var (
	errNotFound       = usecase.NotFound("conversation not found")
	errJobNotFound    = usecase.NotFound("job not found")
	errNotParticipant = usecase.Forbidden("you are not part of this conversation")
	errNotApplied     = usecase.Forbidden("conversations are limited to applicants of the job")
	errNotOwner       = usecase.Forbidden("you do not manage this job")
	errEmpty          = usecase.Rule("body", "write a message or attach a file")
	errNoAttachment   = usecase.NotFound("message has no attachment")
)

type StartInput struct {
	JobID       uuid.UUID  `json:"job_id" validate:"required"`
	CandidateID *uuid.UUID `json:"candidate_id"`
}

type SendInput struct {
	Body string `json:"body" form:"body" validate:"max=5000"`
}

type Service struct {
	conversations messaging.Repository
	jobs          job.Repository
	companies     company.Repository
	apps          application.Repository
	users         user.Repository
	storage       storage.Storage
	notifier      usecase.Notifier
	pusher        usecase.Pusher
	logger        zerolog.Logger
	now           func() time.Time
}

type Deps struct {
	Conversations messaging.Repository
	Jobs          job.Repository
	Companies     company.Repository
	Applications  application.Repository
	Users         user.Repository
	Storage       storage.Storage
	Notifier      usecase.Notifier
	Pusher        usecase.Pusher
	Logger        zerolog.Logger
}

func NewService(d Deps) *Service {
	if d.Pusher == nil {
		d.Pusher = usecase.NopPusher{}
	}
	return &Service{
		conversations: d.Conversations,
		jobs:          d.Jobs,
		companies:     d.Companies,
		apps:          d.Applications,
		users:         d.Users,
		storage:       d.Storage,
		notifier:      d.Notifier,
		pusher:        d.Pusher,
		logger:        d.Logger,
		now:           time.Now,
	}
}

// Start finds or creates the conversation about a job between its manager
// and a candidate who applied to it.
func (s *Service) Start(ctx context.Context, actorID uuid.UUID, role user.Role, in StartInput) (messaging.Conversation, bool, error) {
	if err := validate.Struct(in); err != nil {
		return messaging.Conversation{}, false, err
	}
	l, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return messaging.Conversation{}, false, errJobNotFound
		}
		return messaging.Conversation{}, false, fmt.Errorf("load job: %w", err)
	}
	managerID, err := s.managerOf(ctx, l)
	if err != nil {
		return messaging.Conversation{}, false, err
	}

	var candidateID uuid.UUID
	switch role {
	case user.RoleCandidate:
		candidateID = actorID
	case user.RoleManager:
		if managerID != actorID {
			return messaging.Conversation{}, false, errNotOwner
		}
		if in.CandidateID == nil {
			return messaging.Conversation{}, false, usecase.Rule("candidate_id", "is required")
		}
		candidateID = *in.CandidateID
	default:
		return messaging.Conversation{}, false, usecase.Forbidden("only candidates and managers can start conversations")
	}

	applied, err := s.apps.Exists(ctx, candidateID, l.ID)
	if err != nil {
		return messaging.Conversation{}, false, fmt.Errorf("check application: %w", err)
	}
	if !applied {
		return messaging.Conversation{}, false, errNotApplied
	}

	now := s.now().UTC()
	conv, created, err := s.conversations.FindOrCreate(ctx, messaging.Conversation{
		ID:          uuid.New(),
		CandidateID: candidateID,
		ManagerID:   managerID,
		JobID:       l.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return messaging.Conversation{}, false, fmt.Errorf("find or create conversation: %w", err)
	}
	return conv, created, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]messaging.Summary, error) {
	out, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return out, nil
}

// Messages returns the thread and marks what was addressed to the viewer
// as read.
func (s *Service) Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]messaging.Message, error) {
	if _, err := s.participant(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if _, err := s.conversations.MarkRead(ctx, conversationID, userID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}
	out, err := s.conversations.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}

// Send stores a message from userID to the other participant, then pushes
// it and records a notification.
func (s *Service) Send(ctx context.Context, userID, conversationID uuid.UUID, in SendInput, attachment *usecase.File) (messaging.Message, error) {
	if err := validate.Struct(in); err != nil {
		return messaging.Message{}, err
	}
	body := strings.TrimSpace(in.Body)
	if body == "" && attachment == nil {
		return messaging.Message{}, errEmpty
	}
	conv, err := s.participant(ctx, userID, conversationID)
	if err != nil {
		return messaging.Message{}, err
	}

	m := messaging.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       userID,
		ReceiverID:     conv.Counterpart(userID),
		Body:           body,
		CreatedAt:      s.now().UTC(),
	}
	if attachment != nil {
		stored, err := usecase.SaveUpload(ctx, s.storage, storage.PrefixMessageAttachments, "attachment", *attachment)
		if err != nil {
			return messaging.Message{}, err
		}
		m.AttachmentPath = stored.Path
		m.AttachmentName = stored.Name
	}

	if err := s.conversations.CreateMessage(ctx, m); err != nil {
		if m.AttachmentPath != "" {
			_ = s.storage.Delete(ctx, m.AttachmentPath)
		}
		return messaging.Message{}, fmt.Errorf("create message: %w", err)
	}

	s.pusher.SendToUser(m.ReceiverID, EventMessageCreated, m)
	if s.notifier != nil {
		sender := "Someone"
		if u, err := s.users.GetUserByID(ctx, userID); err == nil {
			sender = u.FullName
		}
		s.notifier.Notify(ctx, notification.Notification{
			UserID: m.ReceiverID,
			Type:   notification.TypeMessageReceived,
			Title:  "New message from " + sender,
			Body:   preview(body),
			Data: map[string]any{
				"conversation_id": conv.ID.String(),
				"message_id":      m.ID.String(),
			},
		})
	}
	return m, nil
}

// Attachment opens the file of a message for either participant of its
// conversation.
func (s *Service) Attachment(ctx context.Context, userID, messageID uuid.UUID) (usecase.Download, error) {
	m, err := s.conversations.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, messaging.ErrMessageNotFound) {
			return usecase.Download{}, errNoAttachment
		}
		return usecase.Download{}, fmt.Errorf("load message: %w", err)
	}
	if _, err := s.participant(ctx, userID, m.ConversationID); err != nil {
		return usecase.Download{}, err
	}
	if m.AttachmentPath == "" {
		return usecase.Download{}, errNoAttachment
	}
	return usecase.OpenDownload(ctx, s.storage, m.AttachmentPath, m.AttachmentName)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.conversations.UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}

func (s *Service) participant(ctx context.Context, userID, conversationID uuid.UUID) (messaging.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return messaging.Conversation{}, errNotFound
		}
		return messaging.Conversation{}, fmt.Errorf("load conversation: %w", err)
	}
	if !conv.HasParticipant(userID) {
		return messaging.Conversation{}, errNotParticipant
	}
	return conv, nil
}

// managerOf returns the owner of the job's company.
func (s *Service) managerOf(ctx context.Context, l job.Listing) (uuid.UUID, error) {
	c, err := s.companies.GetByID(ctx, l.CompanyID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return uuid.Nil, errJobNotFound
		}
		return uuid.Nil, fmt.Errorf("load company: %w", err)
	}
	return c.OwnerID, nil
}

func preview(body string) string {
	const limit = 140
	r := []rune(body)
	if len(r) <= limit {
		return body
	}
	return string(r[:limit]) + "…"
}
