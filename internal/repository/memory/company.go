package memory

import (
	"context"
	"sort"
	"strings"

	"jobboard/internal/domain/company"
	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

type CompanyRepository struct{ s *Store }

func (r *CompanyRepository) Create(_ context.Context, c company.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.OwnerID == c.OwnerID {
			return company.ErrAlreadyOwned
		}
	}
	r.s.companies[c.ID] = c
	return nil
}

func (r *CompanyRepository) GetByID(_ context.Context, id uuid.UUID) (company.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return company.Company{}, company.ErrNotFound
	}
	return c, nil
}

func (r *CompanyRepository) GetByOwner(_ context.Context, ownerID uuid.UUID) (company.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.companies {
		if c.OwnerID == ownerID {
			return c, nil
		}
	}
	return company.Company{}, company.ErrNotFound
}

func (r *CompanyRepository) Update(_ context.Context, c company.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.companies[c.ID]
	if !ok {
		return company.ErrNotFound
	}
	c.IsActive = existing.IsActive
	c.OwnerID = existing.OwnerID
	r.s.companies[c.ID] = c
	return nil
}

func (r *CompanyRepository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return company.ErrNotFound
	}
	c.IsActive = active
	r.s.companies[id] = c
	return nil
}

func (r *CompanyRepository) List(_ context.Context, f company.ListFilter) ([]company.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]company.Company, 0)
	for _, c := range r.s.companies {
		if !f.IncludeInactive && !c.IsActive {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), nil
}

type JobRepository struct{ s *Store }

func (r *JobRepository) Create(_ context.Context, j job.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jobs[j.ID] = j
	return nil
}

func (r *JobRepository) GetByID(_ context.Context, id uuid.UUID) (job.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return job.Listing{}, job.ErrNotFound
	}
	return r.s.listing(j), nil
}

func (r *JobRepository) Update(_ context.Context, j job.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.jobs[j.ID]
	if !ok {
		return job.ErrNotFound
	}
	j.CompanyID = existing.CompanyID
	j.CreatedAt = existing.CreatedAt
	r.s.jobs[j.ID] = j
	return nil
}

func (r *JobRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return job.ErrNotFound
	}
	delete(r.s.jobs, id)
	return nil
}

func (r *JobRepository) ListByCompany(_ context.Context, companyID uuid.UUID) ([]job.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]job.Listing, 0)
	for _, j := range r.s.jobs {
		if j.CompanyID == companyID {
			out = append(out, r.s.listing(j))
		}
	}
	sortListings(out)
	return out, nil
}

func (r *JobRepository) ListOpen(_ context.Context, f job.ListFilter) ([]job.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	loc := strings.ToLower(strings.TrimSpace(f.Location))
	out := make([]job.Listing, 0)
	for _, j := range r.s.jobs {
		l := r.s.listing(j)
		if j.Status != job.StatusActive || !l.CompanyActive || j.DeadlinePassed(f.Now) {
			continue
		}
		if !matchesAny(strings.ToLower(j.Title+" "+j.Description+" "+l.CompanyName), f.Terms) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(j.Location), loc) {
			continue
		}
		out = append(out, l)
	}
	sortListings(out)
	return page(out, f.Limit, f.Offset), nil
}

func (r *JobRepository) CountApplications(_ context.Context, jobID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, a := range r.s.applications {
		if a.JobID == jobID {
			n++
		}
	}
	return n, nil
}

func matchesAny(text string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	for _, t := range terms {
		if strings.Contains(text, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// listing expects s.mu to be held.
func (s *Store) listing(j job.Job) job.Listing {
	c := s.companies[j.CompanyID]
	return job.Listing{Job: j, CompanyName: c.Name, CompanyActive: c.IsActive}
}

func sortListings(out []job.Listing) {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
}

var (
	_ company.Repository = (*CompanyRepository)(nil)
	_ job.Repository     = (*JobRepository)(nil)
)
