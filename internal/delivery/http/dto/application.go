package dto

import (
	"time"

	"jobboard/internal/domain/application"

	"github.com/google/uuid"
)

type LookupResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
}

func NewLookupResponse(l application.Lookup) LookupResponse {
	return LookupResponse{ID: l.ID, Name: l.Name, Slug: l.Slug, Color: l.Color, SortOrder: l.SortOrder}
}

type ApplicationResponse struct {
	ID               uuid.UUID      `json:"id"`
	JobID            uuid.UUID      `json:"job_id"`
	JobTitle         string         `json:"job_title"`
	JobLocation      string         `json:"job_location"`
	CompanyID        uuid.UUID      `json:"company_id"`
	CompanyName      string         `json:"company_name"`
	ApplicantID      uuid.UUID      `json:"applicant_id"`
	ApplicantName    string         `json:"applicant_name"`
	ApplicantEmail   string         `json:"applicant_email"`
	Status           LookupResponse `json:"status"`
	Stage            LookupResponse `json:"stage"`
	CoverLetter      string         `json:"cover_letter"`
	ResumeVersionID  *uuid.UUID     `json:"resume_version_id"`
	ResumeTitle      string         `json:"resume_title,omitempty"`
	ResumeURL        string         `json:"resume_url,omitempty"`
	PortfolioItemIDs []uuid.UUID    `json:"portfolio_item_ids"`
	AppliedAt        time.Time      `json:"applied_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func NewApplicationResponse(d application.Detail) ApplicationResponse {
	items := d.PortfolioItemIDs
	if items == nil {
		items = []uuid.UUID{}
	}
	return ApplicationResponse{
		ID:               d.ID,
		JobID:            d.JobID,
		JobTitle:         d.JobTitle,
		JobLocation:      d.JobLocation,
		CompanyID:        d.CompanyID,
		CompanyName:      d.CompanyName,
		ApplicantID:      d.UserID,
		ApplicantName:    d.ApplicantName,
		ApplicantEmail:   d.ApplicantEmail,
		Status:           NewLookupResponse(d.Status),
		Stage:            NewLookupResponse(d.Stage),
		CoverLetter:      d.CoverLetter,
		ResumeVersionID:  d.ResumeVersionID,
		ResumeTitle:      d.ResumeTitle,
		ResumeURL:        downloadURL(d.ResumePath, "/applications/"+d.ID.String()+"/resume"),
		PortfolioItemIDs: items,
		AppliedAt:        d.AppliedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type HistoryResponse struct {
	ID         uuid.UUID `json:"id"`
	FromStage  string    `json:"from_stage,omitempty"`
	ToStage    string    `json:"to_stage"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  uuid.UUID `json:"changed_by"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewHistoryResponse(h application.HistoryEntry) HistoryResponse {
	return HistoryResponse{
		ID:         h.ID,
		FromStage:  h.FromStage,
		ToStage:    h.ToStage,
		FromStatus: h.FromStatus,
		ToStatus:   h.ToStatus,
		ChangedBy:  h.ChangedBy,
		Note:       h.Note,
		CreatedAt:  h.CreatedAt,
	}
}
