package application

import (
	"time"

	"github.com/google/uuid"
)

// Status and stage slugs the service relies on. Other rows may exist in
// the lookup tables; these are the ones with behavior attached.
const (
	StatusPending     = "pending"
	StatusReviewing   = "reviewing"
	StatusShortlisted = "shortlisted"
	StatusHired       = "hired"
	StatusRejected    = "rejected"
	StatusWithdrawn   = "withdrawn"

	StageApplied = "applied"
)

// Lookup is a row of an ordered reference table (statuses or stages).
type Lookup struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Color     string
	SortOrder int
}

type Status = Lookup

type Stage = Lookup

// IsFinal reports whether an application in this status can no longer move.
func IsFinal(statusSlug string) bool {
	switch statusSlug {
	case StatusWithdrawn, StatusHired, StatusRejected:
		return true
	default:
		return false
	}
}

type Application struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	JobID            uuid.UUID
	StatusID         uuid.UUID
	StageID          uuid.UUID
	CoverLetter      string
	ResumeVersionID  *uuid.UUID
	ResumeTitle      string
	ResumePath       string
	PortfolioItemIDs []uuid.UUID
	AppliedAt        time.Time
	UpdatedAt        time.Time
}

// HistoryEntry is one append-only row of the stage log.
type HistoryEntry struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	FromStageID   *uuid.UUID
	ToStageID     uuid.UUID
	FromStatusID  *uuid.UUID
	ToStatusID    uuid.UUID
	ChangedBy     uuid.UUID
	Note          string
	CreatedAt     time.Time

	FromStage  string
	ToStage    string
	FromStatus string
	ToStatus   string
}

// Detail is an application with everything needed to render or export it.
type Detail struct {
	Application
	Status         Status
	Stage          Stage
	JobTitle       string
	JobLocation    string
	CompanyID      uuid.UUID
	CompanyName    string
	ManagerID      uuid.UUID
	ApplicantName  string
	ApplicantEmail string
}

type ListFilter struct {
	UserID     *uuid.UUID
	CompanyID  *uuid.UUID
	JobID      *uuid.UUID
	StatusSlug string
	Limit      int
	Offset     int
}
