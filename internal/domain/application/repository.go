package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrDuplicate      = errors.New("application already exists")
	ErrLookupNotFound = errors.New("status or stage not found")
	ErrStale          = errors.New("application changed since it was read")
)

type Repository interface {
	Exists(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
	// CreateWithHistory stores the application, its portfolio links and the
	// first history entry atomically.
	CreateWithHistory(ctx context.Context, a Application, h HistoryEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (Detail, error)
	List(ctx context.Context, f ListFilter) ([]Detail, error)
	// Transition moves the application to statusID/stageID and appends h in
	// the same transaction. The move only applies while the application is
	// still at h.FromStatusID/h.FromStageID; otherwise it returns ErrStale.
	Transition(ctx context.Context, id, statusID, stageID uuid.UUID, h HistoryEntry) error
	History(ctx context.Context, id uuid.UUID) ([]HistoryEntry, error)
}

type ReferenceRepository interface {
	ListStatuses(ctx context.Context) ([]Status, error)
	ListStages(ctx context.Context) ([]Stage, error)
	StatusBySlug(ctx context.Context, slug string) (Status, error)
	StageBySlug(ctx context.Context, slug string) (Stage, error)
	UpsertStatus(ctx context.Context, s Status) (Status, error)
	UpsertStage(ctx context.Context, s Stage) (Stage, error)
}
