package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/portfolio"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	errNotFound = usecase.NotFound("portfolio item not found")
	errNotOwner = usecase.Forbidden("you can only manage your own portfolio")
)

type Input struct {
	Title        string   `json:"title" form:"title" validate:"notblank,max=255"`
	Description  string   `json:"description" form:"description" validate:"max=5000"`
	URL          string   `json:"url" form:"url" validate:"omitempty,url,max=500"`
	Technologies []string `json:"technologies" form:"technologies" validate:"max=30,dive,notblank,max=50"`
}

type Service struct {
	items   portfolio.Repository
	storage storage.Storage
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(items portfolio.Repository, st storage.Storage, logger zerolog.Logger) *Service {
	return &Service{items: items, storage: st, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]portfolio.Item, error) {
	out, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list portfolio: %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (portfolio.Item, error) {
	return s.owned(ctx, userID, id)
}

// Create stores a new item. The thumbnail is optional.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input, thumbnail *usecase.File) (portfolio.Item, error) {
	if err := validate.Struct(in); err != nil {
		return portfolio.Item{}, err
	}
	now := s.now().UTC()
	it := portfolio.Item{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(&it, in)

	if thumbnail != nil {
		stored, err := usecase.SaveUpload(ctx, s.storage, storage.PrefixPortfolio, "thumbnail", *thumbnail)
		if err != nil {
			return portfolio.Item{}, err
		}
		it.ThumbnailPath = stored.Path
	}
	if err := s.items.Create(ctx, it); err != nil {
		s.discard(ctx, it.ThumbnailPath)
		return portfolio.Item{}, fmt.Errorf("create portfolio item: %w", err)
	}
	return it, nil
}

// Update replaces the item fields. A new thumbnail replaces the old file.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in Input, thumbnail *usecase.File) (portfolio.Item, error) {
	if err := validate.Struct(in); err != nil {
		return portfolio.Item{}, err
	}
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return portfolio.Item{}, err
	}
	apply(&it, in)
	it.UpdatedAt = s.now().UTC()

	old := ""
	if thumbnail != nil {
		stored, err := usecase.SaveUpload(ctx, s.storage, storage.PrefixPortfolio, "thumbnail", *thumbnail)
		if err != nil {
			return portfolio.Item{}, err
		}
		old = it.ThumbnailPath
		it.ThumbnailPath = stored.Path
	}
	if err := s.items.Update(ctx, it); err != nil {
		if thumbnail != nil {
			s.discard(ctx, it.ThumbnailPath)
		}
		return portfolio.Item{}, fmt.Errorf("update portfolio item: %w", err)
	}
	s.discard(ctx, old)
	return it, nil
}

// Delete removes the item and its thumbnail file.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete portfolio item: %w", err)
	}
	s.discard(ctx, it.ThumbnailPath)
	return nil
}

func apply(it *portfolio.Item, in Input) {
	it.Title = strings.TrimSpace(in.Title)
	it.Description = strings.TrimSpace(in.Description)
	it.URL = strings.TrimSpace(in.URL)
	it.Technologies = cleanTags(in.Technologies)
}

// cleanTags trims and de-duplicates case-insensitively, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		k := strings.ToLower(t)
		if t == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (portfolio.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			return portfolio.Item{}, errNotFound
		}
		return portfolio.Item{}, fmt.Errorf("load portfolio item: %w", err)
	}
	if it.UserID != userID {
		return portfolio.Item{}, errNotOwner
	}
	return it, nil
}

func (s *Service) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("delete portfolio file")
	}
}
