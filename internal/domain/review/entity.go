package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("review not found")
	ErrDuplicate = errors.New("company already reviewed")
)

type Review struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CompanyID   uuid.UUID
	Rating      int
	Title       string
	Body        string
	Pros        string
	Cons        string
	IsAnonymous bool
	AuthorName  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Summary struct {
	CompanyID uuid.UUID `json:"company_id"`
	Count     int       `json:"count"`
	Average   float64   `json:"average"`
}

type Repository interface {
	Create(ctx context.Context, r Review) error
	GetByID(ctx context.Context, id uuid.UUID) (Review, error)
	ExistsForUser(ctx context.Context, userID, companyID uuid.UUID) (bool, error)
	Update(ctx context.Context, r Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Review, error)
	Summarize(ctx context.Context, companyID uuid.UUID) (Summary, error)
}
