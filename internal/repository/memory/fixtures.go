package memory

import (
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

var (
	referenceStatuses = []string{
		application.StatusPending,
		application.StatusReviewing,
		application.StatusShortlisted,
		application.StatusHired,
		application.StatusRejected,
		application.StatusWithdrawn,
	}
	referenceStages = []string{application.StageApplied, "screening", "interview", "offer", "hired"}
)

// SeedReference fills the status and stage tables with the default rows.
func (s *Store) SeedReference() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, slug := range referenceStatuses {
		upsertLookup(s.statuses, application.Lookup{ID: uuid.New(), Name: slug, Slug: slug, SortOrder: i + 1})
	}
	for i, slug := range referenceStages {
		upsertLookup(s.stages, application.Lookup{ID: uuid.New(), Name: slug, Slug: slug, SortOrder: i + 1})
	}
}

// AddUser inserts an active user with the given role.
func (s *Store) AddUser(role user.Role, name string) user.User {
	now := time.Now().UTC()
	u := user.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		FullName:  name,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	if role == user.RoleCandidate {
		s.profiles[u.ID] = user.Profile{UserID: u.ID, Skills: []string{}}
	}
	return u
}

// AddCompany inserts an active company owned by ownerID.
func (s *Store) AddCompany(ownerID uuid.UUID, name string) company.Company {
	now := time.Now().UTC()
	c := company.Company{ID: uuid.New(), OwnerID: ownerID, Name: name, IsActive: true, CreatedAt: now, UpdatedAt: now}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
	return c
}

// AddJob inserts a job; mutate tweaks it before it is stored.
func (s *Store) AddJob(companyID uuid.UUID, title string, mutate func(*job.Job)) job.Job {
	now := time.Now().UTC()
	j := job.Job{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Title:       title,
		Description: title,
		Location:    "Remote",
		Status:      job.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if mutate != nil {
		mutate(&j)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
	return j
}
