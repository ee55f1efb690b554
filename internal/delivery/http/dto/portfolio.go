package dto

import (
	"time"

	"jobboard/internal/domain/portfolio"

	"github.com/google/uuid"
)

type PortfolioItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	Technologies []string  `json:"technologies"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewPortfolioItemResponse(it portfolio.Item, files FileURLer) PortfolioItemResponse {
	tech := it.Technologies
	if tech == nil {
		tech = []string{}
	}
	return PortfolioItemResponse{
		ID:           it.ID,
		Title:        it.Title,
		Description:  it.Description,
		URL:          it.URL,
		Technologies: tech,
		ThumbnailURL: fileURL(files, it.ThumbnailPath),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}
