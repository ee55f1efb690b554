package dto

import (
	"time"

	"jobboard/internal/domain/messaging"

	"github.com/google/uuid"
)

type MessageResponse struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	ReceiverID     uuid.UUID  `json:"receiver_id"`
	Body           string     `json:"body"`
	AttachmentName string     `json:"attachment_name,omitempty"`
	AttachmentURL  string     `json:"attachment_url,omitempty"`
	IsRead         bool       `json:"is_read"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NewMessageResponse(m messaging.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Body:           m.Body,
		AttachmentName: m.AttachmentName,
		AttachmentURL:  downloadURL(m.AttachmentPath, "/messages/"+m.ID.String()+"/attachment"),
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

type ConversationResponse struct {
	ID            uuid.UUID        `json:"id"`
	JobID         uuid.UUID        `json:"job_id"`
	JobTitle      string           `json:"job_title,omitempty"`
	CandidateID   uuid.UUID        `json:"candidate_id"`
	CandidateName string           `json:"candidate_name,omitempty"`
	ManagerID     uuid.UUID        `json:"manager_id"`
	ManagerName   string           `json:"manager_name,omitempty"`
	LastMessage   *MessageResponse `json:"last_message,omitempty"`
	UnreadCount   int              `json:"unread_count"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func NewConversationResponse(c messaging.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:          c.ID,
		JobID:       c.JobID,
		CandidateID: c.CandidateID,
		ManagerID:   c.ManagerID,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewConversationSummary(s messaging.Summary) ConversationResponse {
	out := NewConversationResponse(s.Conversation)
	out.JobTitle = s.JobTitle
	out.CandidateName = s.CandidateName
	out.ManagerName = s.ManagerName
	out.UnreadCount = s.UnreadCount
	if s.LastMessage != nil {
		m := NewMessageResponse(*s.LastMessage)
		out.LastMessage = &m
	}
	return out
}
