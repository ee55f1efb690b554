package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/company"
	"jobboard/internal/domain/review"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const anonymousAuthor = "Anonymous"

var (
	errNotFound        = usecase.NotFound("review not found")
	errCompanyNotFound = usecase.NotFound("company not found")
	errNotOwner        = usecase.Forbidden("you can only change your own reviews")
	errDuplicate       = usecase.Conflict("you have already reviewed this company")
)

type Input struct {
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Title       string `json:"title" validate:"notblank,max=255"`
	Body        string `json:"body" validate:"notblank,max=5000"`
	Pros        string `json:"pros" validate:"max=2000"`
	Cons        string `json:"cons" validate:"max=2000"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type Service struct {
	reviews   review.Repository
	companies company.Repository
	cache     usecase.Cache
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(reviews review.Repository, companies company.Repository, c usecase.Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{reviews: reviews, companies: companies, cache: c, ttl: ttl, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, userID, companyID uuid.UUID, in Input) (review.Review, error) {
	if err := validate.Struct(in); err != nil {
		return review.Review{}, err
	}
	c, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return review.Review{}, errCompanyNotFound
		}
		return review.Review{}, fmt.Errorf("load company: %w", err)
	}
	if !c.IsActive {
		return review.Review{}, errCompanyNotFound
	}
	exists, err := s.reviews.ExistsForUser(ctx, userID, companyID)
	if err != nil {
		return review.Review{}, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return review.Review{}, errDuplicate
	}

	now := s.now().UTC()
	rv := review.Review{
		ID:          uuid.New(),
		UserID:      userID,
		CompanyID:   companyID,
		Rating:      in.Rating,
		Title:       strings.TrimSpace(in.Title),
		Body:        strings.TrimSpace(in.Body),
		Pros:        strings.TrimSpace(in.Pros),
		Cons:        strings.TrimSpace(in.Cons),
		IsAnonymous: in.IsAnonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, review.ErrDuplicate) {
			return review.Review{}, errDuplicate
		}
		return review.Review{}, fmt.Errorf("create review: %w", err)
	}
	s.invalidate(ctx, companyID)
	return rv, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in Input) (review.Review, error) {
	if err := validate.Struct(in); err != nil {
		return review.Review{}, err
	}
	rv, err := s.owned(ctx, userID, id)
	if err != nil {
		return review.Review{}, err
	}
	rv.Rating = in.Rating
	rv.Title = strings.TrimSpace(in.Title)
	rv.Body = strings.TrimSpace(in.Body)
	rv.Pros = strings.TrimSpace(in.Pros)
	rv.Cons = strings.TrimSpace(in.Cons)
	rv.IsAnonymous = in.IsAnonymous
	rv.UpdatedAt = s.now().UTC()
	if err := s.reviews.Update(ctx, rv); err != nil {
		return review.Review{}, fmt.Errorf("update review: %w", err)
	}
	s.invalidate(ctx, rv.CompanyID)
	return rv, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	rv, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	s.invalidate(ctx, rv.CompanyID)
	return nil
}

// Get returns a review to its author only.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (review.Review, error) {
	return s.owned(ctx, userID, id)
}

func (s *Service) Mine(ctx context.Context, userID uuid.UUID) ([]review.Review, error) {
	out, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

// ListForCompany is public. Anonymous reviews lose their author.
func (s *Service) ListForCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]review.Review, error) {
	limit, offset = usecase.NormalizePage(limit, offset)
	out, err := s.reviews.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	for i := range out {
		out[i] = Public(out[i])
	}
	return out, nil
}

// Summary returns the rating count and average, served from the cache when
// possible.
func (s *Service) Summary(ctx context.Context, companyID uuid.UUID) (review.Summary, error) {
	key := cache.ReviewSummaryKey(companyID.String())
	if s.cache != nil {
		var cached review.Summary
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("read review summary cache")
		} else if hit {
			return cached, nil
		}
	}

	sum, err := s.reviews.Summarize(ctx, companyID)
	if err != nil {
		return review.Summary{}, fmt.Errorf("summarize reviews: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, sum, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("write review summary cache")
		}
	}
	return sum, nil
}

// Public strips the author from an anonymous review.
func Public(rv review.Review) review.Review {
	if rv.IsAnonymous {
		rv.UserID = uuid.Nil
		rv.AuthorName = anonymousAuthor
	}
	return rv
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (review.Review, error) {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			return review.Review{}, errNotFound
		}
		return review.Review{}, fmt.Errorf("load review: %w", err)
	}
	if rv.UserID != userID {
		return review.Review{}, errNotOwner
	}
	return rv, nil
}

func (s *Service) invalidate(ctx context.Context, companyID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ReviewSummaryKey(companyID.String())); err != nil {
		s.logger.Warn().Err(err).Msg("invalidate review summary")
	}
}
