package dto

import (
	"time"

	"jobboard/internal/domain/resume"

	"github.com/google/uuid"
)

type ResumeResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	MimeType  string    `json:"mime_type"`
	FileSize  int64     `json:"file_size"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResumeResponse(v resume.Version) ResumeResponse {
	return ResumeResponse{
		ID:        v.ID,
		Title:     v.Title,
		Notes:     v.Notes,
		FileName:  v.FileName,
		FileURL:   downloadURL(v.FilePath, "/resumes/"+v.ID.String()+"/file"),
		MimeType:  v.MimeType,
		FileSize:  v.FileSize,
		IsDefault: v.IsDefault,
		CreatedAt: v.CreatedAt,
	}
}

type EnhancementResponse struct {
	ID              uuid.UUID                `json:"id"`
	ResumeVersionID uuid.UUID                `json:"resume_version_id"`
	Section         string                   `json:"section"`
	OriginalText    string                   `json:"original_text"`
	SuggestedText   string                   `json:"suggested_text"`
	Status          resume.EnhancementStatus `json:"status"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

func NewEnhancementResponse(e resume.Enhancement) EnhancementResponse {
	return EnhancementResponse{
		ID:              e.ID,
		ResumeVersionID: e.ResumeVersionID,
		Section:         e.Section,
		OriginalText:    e.OriginalText,
		SuggestedText:   e.SuggestedText,
		Status:          e.Status,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
