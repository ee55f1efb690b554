package memory

import (
	"context"
	"sort"

	"jobboard/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationRepository struct{ s *Store }

func (r *ApplicationRepository) Exists(_ context.Context, userID, jobID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.applications {
		if a.UserID == userID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ApplicationRepository) CreateWithHistory(_ context.Context, a application.Application, h application.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.applications {
		if existing.UserID == a.UserID && existing.JobID == a.JobID {
			return application.ErrDuplicate
		}
	}
	a.PortfolioItemIDs = append([]uuid.UUID(nil), a.PortfolioItemIDs...)
	a.UpdatedAt = a.AppliedAt
	r.s.applications[a.ID] = a
	r.s.history = append(r.s.history, h)
	return nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id uuid.UUID) (application.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.applications[id]
	if !ok {
		return application.Detail{}, application.ErrNotFound
	}
	return r.s.applicationDetail(a), nil
}

func (r *ApplicationRepository) List(_ context.Context, f application.ListFilter) ([]application.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]application.Detail, 0)
	for _, a := range r.s.applications {
		d := r.s.applicationDetail(a)
		if f.UserID != nil && d.UserID != *f.UserID {
			continue
		}
		if f.CompanyID != nil && d.CompanyID != *f.CompanyID {
			continue
		}
		if f.JobID != nil && d.JobID != *f.JobID {
			continue
		}
		if f.StatusSlug != "" && d.Status.Slug != f.StatusSlug {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *ApplicationRepository) Transition(_ context.Context, id, statusID, stageID uuid.UUID, h application.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return application.ErrNotFound
	}
	if h.FromStatusID == nil || h.FromStageID == nil ||
		a.StatusID != *h.FromStatusID || a.StageID != *h.FromStageID {
		return application.ErrStale
	}
	a.StatusID = statusID
	a.StageID = stageID
	a.UpdatedAt = h.CreatedAt
	r.s.applications[id] = a
	r.s.history = append(r.s.history, h)
	return nil
}

func (r *ApplicationRepository) History(_ context.Context, id uuid.UUID) ([]application.HistoryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]application.HistoryEntry, 0)
	for _, h := range r.s.history {
		if h.ApplicationID != id {
			continue
		}
		h.ToStage = r.s.stages[h.ToStageID].Slug
		h.ToStatus = r.s.statuses[h.ToStatusID].Slug
		if h.FromStageID != nil {
			h.FromStage = r.s.stages[*h.FromStageID].Slug
		}
		if h.FromStatusID != nil {
			h.FromStatus = r.s.statuses[*h.FromStatusID].Slug
		}
		out = append(out, h)
	}
	return out, nil
}

// applicationDetail expects s.mu to be held.
func (s *Store) applicationDetail(a application.Application) application.Detail {
	j := s.jobs[a.JobID]
	c := s.companies[j.CompanyID]
	u := s.users[a.UserID]
	return application.Detail{
		Application:    a,
		Status:         s.statuses[a.StatusID],
		Stage:          s.stages[a.StageID],
		JobTitle:       j.Title,
		JobLocation:    j.Location,
		CompanyID:      c.ID,
		CompanyName:    c.Name,
		ManagerID:      c.OwnerID,
		ApplicantName:  u.FullName,
		ApplicantEmail: u.Email,
	}
}

type ReferenceRepository struct{ s *Store }

func (r *ReferenceRepository) ListStatuses(_ context.Context) ([]application.Status, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedLookups(r.s.statuses), nil
}

func (r *ReferenceRepository) ListStages(_ context.Context) ([]application.Stage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedLookups(r.s.stages), nil
}

func (r *ReferenceRepository) StatusBySlug(_ context.Context, slug string) (application.Status, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return lookupBySlug(r.s.statuses, slug)
}

func (r *ReferenceRepository) StageBySlug(_ context.Context, slug string) (application.Stage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return lookupBySlug(r.s.stages, slug)
}

func (r *ReferenceRepository) UpsertStatus(_ context.Context, l application.Status) (application.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return upsertLookup(r.s.statuses, l), nil
}

func (r *ReferenceRepository) UpsertStage(_ context.Context, l application.Stage) (application.Stage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return upsertLookup(r.s.stages, l), nil
}

func sortedLookups(m map[uuid.UUID]application.Lookup) []application.Lookup {
	out := make([]application.Lookup, 0, len(m))
	for _, l := range m {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func lookupBySlug(m map[uuid.UUID]application.Lookup, slug string) (application.Lookup, error) {
	for _, l := range m {
		if l.Slug == slug {
			return l, nil
		}
	}
	return application.Lookup{}, application.ErrLookupNotFound
}

func upsertLookup(m map[uuid.UUID]application.Lookup, l application.Lookup) application.Lookup {
	for id, existing := range m {
		if existing.Slug == l.Slug {
			l.ID = id
			m[id] = l
			return l
		}
	}
	m[l.ID] = l
	return l
}

var (
	_ application.Repository          = (*ApplicationRepository)(nil)
	_ application.ReferenceRepository = (*ReferenceRepository)(nil)
)
