package resume

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("resume version not found")
	ErrEnhancementNotFound = errors.New("resume enhancement not found")
)

type Version struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Notes     string
	FilePath  string
	FileName  string
	MimeType  string
	FileSize  int64
	IsDefault bool
	CreatedAt time.Time
}

type EnhancementStatus string

const (
	EnhancementPending   EnhancementStatus = "pending"
	EnhancementApplied   EnhancementStatus = "applied"
	EnhancementDismissed EnhancementStatus = "dismissed"
)

func (s EnhancementStatus) Valid() bool {
	switch s {
	case EnhancementPending, EnhancementApplied, EnhancementDismissed:
		return true
	default:
		return false
	}
}

// Enhancement is a suggested rewrite of one section of a resume version.
type Enhancement struct {
	ID              uuid.UUID
	ResumeVersionID uuid.UUID
	Section         string
	OriginalText    string
	SuggestedText   string
	Status          EnhancementStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Repository interface {
	CreateVersion(ctx context.Context, v Version) error
	GetVersion(ctx context.Context, id uuid.UUID) (Version, error)
	ListVersions(ctx context.Context, userID uuid.UUID) ([]Version, error)
	UpdateVersion(ctx context.Context, v Version) error
	// SetDefault makes id the only default version of userID.
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
	// DeleteAndPromote removes a version of userID. When it was the default,
	// the newest remaining version becomes the default in the same
	// transaction.
	DeleteAndPromote(ctx context.Context, userID, id uuid.UUID) error

	CreateEnhancement(ctx context.Context, e Enhancement) error
	GetEnhancement(ctx context.Context, id uuid.UUID) (Enhancement, error)
	ListEnhancements(ctx context.Context, versionID uuid.UUID) ([]Enhancement, error)
	UpdateEnhancementStatus(ctx context.Context, id uuid.UUID, status EnhancementStatus, at time.Time) error
	DeleteEnhancement(ctx context.Context, id uuid.UUID) error
}
