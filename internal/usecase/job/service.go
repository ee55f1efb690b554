package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/company"
	"jobboard/internal/domain/job"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/search"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	errNotFound      = usecase.NotFound("job not found")
	errNotOwner      = usecase.Forbidden("you do not manage this job")
	errNoCompany     = usecase.Rule("company_id", "create your company before posting jobs")
	errHasApplicants = usecase.Conflict("job has applications and cannot be deleted")
)

type Input struct {
	Title          string     `json:"title" validate:"notblank,max=255"`
	Description    string     `json:"description" validate:"notblank,max=20000"`
	Location       string     `json:"location" validate:"max=255"`
	EmploymentType string     `json:"employment_type" validate:"omitempty,oneof=full-time part-time contract internship temporary"`
	SalaryMin      *int       `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax      *int       `json:"salary_max" validate:"omitempty,min=0"`
	Status         string     `json:"status" validate:"omitempty,oneof=draft active closed"`
	Deadline       *time.Time `json:"deadline"`
}

// ListParams is the public listing query.
type ListParams struct {
	Query    string
	Location string
	Limit    int
	Offset   int
}

type Service struct {
	jobs      job.Repository
	companies company.Repository
	cache     usecase.Cache
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(jobs job.Repository, companies company.Repository, c usecase.Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{jobs: jobs, companies: companies, cache: c, ttl: ttl, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, actorID uuid.UUID, in Input) (job.Listing, error) {
	if err := check(in); err != nil {
		return job.Listing{}, err
	}
	c, err := s.companies.GetByOwner(ctx, actorID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return job.Listing{}, errNoCompany
		}
		return job.Listing{}, fmt.Errorf("load company: %w", err)
	}

	now := s.now().UTC()
	j := job.Job{
		ID:        uuid.New(),
		CompanyID: c.ID,
		Status:    job.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(&j, in)
	if err := s.jobs.Create(ctx, j); err != nil {
		return job.Listing{}, fmt.Errorf("create job: %w", err)
	}
	s.invalidate(ctx)
	return job.Listing{Job: j, CompanyName: c.Name, CompanyActive: c.IsActive}, nil
}

func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, in Input) (job.Listing, error) {
	if err := check(in); err != nil {
		return job.Listing{}, err
	}
	l, err := s.owned(ctx, actorID, id)
	if err != nil {
		return job.Listing{}, err
	}
	apply(&l.Job, in)
	l.UpdatedAt = s.now().UTC()
	if err := s.jobs.Update(ctx, l.Job); err != nil {
		return job.Listing{}, fmt.Errorf("update job: %w", err)
	}
	s.invalidate(ctx)
	return l, nil
}

func (s *Service) SetStatus(ctx context.Context, actorID, id uuid.UUID, status string) (job.Listing, error) {
	st := job.Status(status)
	if !st.Valid() {
		return job.Listing{}, usecase.Rule("status", "must be one of: draft, active, closed")
	}
	l, err := s.owned(ctx, actorID, id)
	if err != nil {
		return job.Listing{}, err
	}
	l.Status = st
	l.UpdatedAt = s.now().UTC()
	if err := s.jobs.Update(ctx, l.Job); err != nil {
		return job.Listing{}, fmt.Errorf("update job: %w", err)
	}
	s.invalidate(ctx)
	return l, nil
}

// Delete removes a job that nobody applied to. Jobs with applications are
// kept so the hiring history stays intact; close them instead.
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return err
	}
	n, err := s.jobs.CountApplications(ctx, id)
	if err != nil {
		return fmt.Errorf("count applications: %w", err)
	}
	if n > 0 {
		return errHasApplicants
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return errNotFound
		}
		return fmt.Errorf("delete job: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// ListMine lists every job of the manager's company regardless of status.
func (s *Service) ListMine(ctx context.Context, actorID uuid.UUID) ([]job.Listing, error) {
	c, err := s.companies.GetByOwner(ctx, actorID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return []job.Listing{}, nil
		}
		return nil, fmt.Errorf("load company: %w", err)
	}
	out, err := s.jobs.ListByCompany(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

// ListOpen serves the public board. The query is expanded with synonyms
// and a job matches any variant. Results are cached per normalized query
// until the first deadline on the page at the latest; any job or company
// mutation drops the whole namespace.
func (s *Service) ListOpen(ctx context.Context, p ListParams) ([]job.Listing, error) {
	p.Limit, p.Offset = usecase.NormalizePage(p.Limit, p.Offset)
	q := search.Process(p.Query)
	key := cache.OpenJobsKey(q.Normalized, p.Location, p.Limit, p.Offset)
	now := s.now().UTC()

	if s.cache != nil {
		var cached []job.Listing
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			s.logger.Debug().Str("key", key).Msg("jobs cache hit")
			return withoutExpired(cached, now), nil
		}
		s.logger.Debug().Str("key", key).Msg("jobs cache miss")
	}

	out, err := s.jobs.ListOpen(ctx, job.ListFilter{
		Terms:    q.Variants,
		Location: strings.TrimSpace(p.Location),
		Now:      now,
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, out, s.listTTL(out, now)); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("jobs cache write failed")
		}
	}
	return out, nil
}

// listTTL caps the cache TTL at the earliest deadline among items.
func (s *Service) listTTL(items []job.Listing, now time.Time) time.Duration {
	ttl := s.ttl
	for _, l := range items {
		if l.Deadline == nil {
			continue
		}
		if left := l.Deadline.Sub(now); ttl <= 0 || left < ttl {
			ttl = left
		}
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}

func withoutExpired(items []job.Listing, now time.Time) []job.Listing {
	out := make([]job.Listing, 0, len(items))
	for _, l := range items {
		if !l.DeadlinePassed(now) {
			out = append(out, l)
		}
	}
	return out
}

// Get shows an active job of an active company. The owning manager and
// admins see it in any state.
func (s *Service) Get(ctx context.Context, id, viewerID uuid.UUID, isAdmin bool) (job.Listing, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return job.Listing{}, err
	}
	if l.Status == job.StatusActive && l.CompanyActive {
		return l, nil
	}
	if isAdmin {
		return l, nil
	}
	if viewerID != uuid.Nil {
		c, err := s.companies.GetByID(ctx, l.CompanyID)
		if err == nil && c.OwnerID == viewerID {
			return l, nil
		}
	}
	return job.Listing{}, errNotFound
}

func (s *Service) owned(ctx context.Context, actorID, id uuid.UUID) (job.Listing, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return job.Listing{}, err
	}
	c, err := s.companies.GetByID(ctx, l.CompanyID)
	if err != nil {
		return job.Listing{}, fmt.Errorf("load company: %w", err)
	}
	if c.OwnerID != actorID {
		return job.Listing{}, errNotOwner
	}
	return l, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	l, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Listing{}, errNotFound
		}
		return job.Listing{}, fmt.Errorf("load job: %w", err)
	}
	return l, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, cache.OpenJobsPattern); err != nil {
		s.logger.Warn().Err(err).Msg("invalidate job listings")
	}
}

func check(in Input) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMax < *in.SalaryMin {
		return usecase.Rule("salary_max", "must not be less than salary_min")
	}
	return nil
}

func apply(j *job.Job, in Input) {
	j.Title = strings.TrimSpace(in.Title)
	j.Description = strings.TrimSpace(in.Description)
	j.Location = strings.TrimSpace(in.Location)
	j.EmploymentType = in.EmploymentType
	j.SalaryMin = in.SalaryMin
	j.SalaryMax = in.SalaryMax
	j.Deadline = in.Deadline
	if in.Status != "" {
		j.Status = job.Status(in.Status)
	}
}
