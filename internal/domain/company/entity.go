package company

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("company not found")
	ErrAlreadyOwned = errors.New("manager already owns a company")
)

type Company struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Website     string
	Location    string
	LogoPath    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ListFilter struct {
	Query           string
	IncludeInactive bool
	Limit           int
	Offset          int
}

type Repository interface {
	Create(ctx context.Context, c Company) error
	GetByID(ctx context.Context, id uuid.UUID) (Company, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (Company, error)
	Update(ctx context.Context, c Company) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, f ListFilter) ([]Company, error)
}
