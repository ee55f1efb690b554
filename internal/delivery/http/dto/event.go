package dto

import (
	"time"

	"jobboard/internal/domain/event"

	"github.com/google/uuid"
)

type EventResponse struct {
	ID            uuid.UUID    `json:"id"`
	ApplicationID uuid.UUID    `json:"application_id"`
	JobTitle      string       `json:"job_title"`
	CandidateID   uuid.UUID    `json:"candidate_id"`
	ManagerID     uuid.UUID    `json:"manager_id"`
	Title         string       `json:"title"`
	Location      string       `json:"location"`
	Notes         string       `json:"notes"`
	StartsAt      time.Time    `json:"starts_at"`
	EndsAt        time.Time    `json:"ends_at"`
	Status        event.Status `json:"status"`
	Attendees     []string     `json:"attendees"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func NewEventResponse(d event.Detail) EventResponse {
	attendees := d.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return EventResponse{
		ID:            d.ID,
		ApplicationID: d.ApplicationID,
		JobTitle:      d.JobTitle,
		CandidateID:   d.CandidateID,
		ManagerID:     d.ManagerID,
		Title:         d.Title,
		Location:      d.Location,
		Notes:         d.Notes,
		StartsAt:      d.StartsAt,
		EndsAt:        d.EndsAt,
		Status:        d.Status,
		Attendees:     attendees,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
