package company

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/company"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	errNotFound     = usecase.NotFound("company not found")
	errNotOwner     = usecase.Forbidden("you do not manage this company")
	errAlreadyOwned = usecase.Conflict("you already manage a company")
	errNoCompany    = usecase.NotFound("you have not created a company yet")
)

type Input struct {
	Name        string `json:"name" validate:"notblank,max=255"`
	Description string `json:"description" validate:"max=10000"`
	Website     string `json:"website" validate:"omitempty,url,max=255"`
	Location    string `json:"location" validate:"max=255"`
}

type Service struct {
	companies company.Repository
	storage   storage.Storage
	cache     usecase.Cache
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(companies company.Repository, st storage.Storage, c usecase.Cache, logger zerolog.Logger) *Service {
	return &Service{companies: companies, storage: st, cache: c, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in Input) (company.Company, error) {
	if err := validate.Struct(in); err != nil {
		return company.Company{}, err
	}
	if _, err := s.companies.GetByOwner(ctx, ownerID); err == nil {
		return company.Company{}, errAlreadyOwned
	} else if !errors.Is(err, company.ErrNotFound) {
		return company.Company{}, fmt.Errorf("load company: %w", err)
	}

	now := s.now().UTC()
	c := company.Company{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Website:     strings.TrimSpace(in.Website),
		Location:    strings.TrimSpace(in.Location),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.companies.Create(ctx, c); err != nil {
		if errors.Is(err, company.ErrAlreadyOwned) {
			return company.Company{}, errAlreadyOwned
		}
		return company.Company{}, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, in Input) (company.Company, error) {
	if err := validate.Struct(in); err != nil {
		return company.Company{}, err
	}
	c, err := s.owned(ctx, actorID, id)
	if err != nil {
		return company.Company{}, err
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Description = strings.TrimSpace(in.Description)
	c.Website = strings.TrimSpace(in.Website)
	c.Location = strings.TrimSpace(in.Location)
	c.UpdatedAt = s.now().UTC()
	if err := s.companies.Update(ctx, c); err != nil {
		return company.Company{}, fmt.Errorf("update company: %w", err)
	}
	s.invalidateListings(ctx)
	return c, nil
}

func (s *Service) UploadLogo(ctx context.Context, actorID, id uuid.UUID, f usecase.File) (company.Company, error) {
	c, err := s.owned(ctx, actorID, id)
	if err != nil {
		return company.Company{}, err
	}
	stored, err := usecase.SaveUpload(ctx, s.storage, storage.PrefixLogos, "logo", f)
	if err != nil {
		return company.Company{}, err
	}
	old := c.LogoPath
	c.LogoPath = stored.Path
	c.UpdatedAt = s.now().UTC()
	if err := s.companies.Update(ctx, c); err != nil {
		_ = s.storage.Delete(ctx, stored.Path)
		return company.Company{}, fmt.Errorf("update company: %w", err)
	}
	if old != "" {
		if err := s.storage.Delete(ctx, old); err != nil {
			s.logger.Warn().Err(err).Str("path", old).Msg("delete old logo")
		}
	}
	return c, nil
}

// Get returns an active company. Owners and admins also see inactive ones.
func (s *Service) Get(ctx context.Context, id uuid.UUID, viewerID uuid.UUID, isAdmin bool) (company.Company, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return company.Company{}, err
	}
	if !c.IsActive && !isAdmin && c.OwnerID != viewerID {
		return company.Company{}, errNotFound
	}
	return c, nil
}

// Mine returns the company managed by ownerID.
func (s *Service) Mine(ctx context.Context, ownerID uuid.UUID) (company.Company, error) {
	c, err := s.companies.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return company.Company{}, errNoCompany
		}
		return company.Company{}, fmt.Errorf("load company: %w", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, query string, includeInactive bool, limit, offset int) ([]company.Company, error) {
	limit, offset = usecase.NormalizePage(limit, offset)
	out, err := s.companies.List(ctx, company.ListFilter{
		Query:           strings.TrimSpace(query),
		IncludeInactive: includeInactive,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return out, nil
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (company.Company, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return company.Company{}, err
	}
	if err := s.companies.SetActive(ctx, id, active); err != nil {
		return company.Company{}, fmt.Errorf("set company active: %w", err)
	}
	c.IsActive = active
	s.invalidateListings(ctx)
	return c, nil
}

func (s *Service) owned(ctx context.Context, actorID, id uuid.UUID) (company.Company, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return company.Company{}, err
	}
	if c.OwnerID != actorID {
		return company.Company{}, errNotOwner
	}
	return c, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (company.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return company.Company{}, errNotFound
		}
		return company.Company{}, fmt.Errorf("load company: %w", err)
	}
	return c, nil
}

// Company name and activity show up in cached job listings.
func (s *Service) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, cache.OpenJobsPattern); err != nil {
		s.logger.Warn().Err(err).Msg("invalidate job listings")
	}
}
