package portfolio

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("portfolio item not found")

type Item struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Description   string
	URL           string
	Technologies  []string
	ThumbnailPath string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	Create(ctx context.Context, it Item) error
	GetByID(ctx context.Context, id uuid.UUID) (Item, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Item, error)
	Update(ctx context.Context, it Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
