package dto

import (
	"time"

	"jobboard/internal/domain/review"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   uuid.UUID  `json:"company_id"`
	AuthorID    *uuid.UUID `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	Rating      int        `json:"rating"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Pros        string     `json:"pros"`
	Cons        string     `json:"cons"`
	IsAnonymous bool       `json:"is_anonymous"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewReviewResponse(r review.Review) ReviewResponse {
	out := ReviewResponse{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		AuthorName:  r.AuthorName,
		Rating:      r.Rating,
		Title:       r.Title,
		Body:        r.Body,
		Pros:        r.Pros,
		Cons:        r.Cons,
		IsAnonymous: r.IsAnonymous,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.UserID != uuid.Nil {
		id := r.UserID
		out.AuthorID = &id
	}
	return out
}

type CompanyReviewsResponse struct {
	Summary review.Summary       `json:"summary"`
	Reviews Page[ReviewResponse] `json:"reviews"`
}
