package reference

import (
	"context"
	"fmt"
	"strings"

	"jobboard/internal/domain/application"
	"jobboard/internal/pkg/validate"

	"github.com/google/uuid"
)

type Input struct {
	Name      string `json:"name" validate:"notblank,max=100"`
	Slug      string `json:"slug" validate:"required,max=100"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

// Service exposes the ordered status and stage lookup tables.
type Service struct {
	repo application.ReferenceRepository
}

func NewService(repo application.ReferenceRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Statuses(ctx context.Context) ([]application.Status, error) {
	out, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return out, nil
}

func (s *Service) Stages(ctx context.Context) ([]application.Stage, error) {
	out, err := s.repo.ListStages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	return out, nil
}

// SaveStatus creates the status or updates the one with the same slug.
func (s *Service) SaveStatus(ctx context.Context, in Input) (application.Status, error) {
	l, err := lookup(in)
	if err != nil {
		return application.Status{}, err
	}
	out, err := s.repo.UpsertStatus(ctx, l)
	if err != nil {
		return application.Status{}, fmt.Errorf("save status: %w", err)
	}
	return out, nil
}

func (s *Service) SaveStage(ctx context.Context, in Input) (application.Stage, error) {
	l, err := lookup(in)
	if err != nil {
		return application.Stage{}, err
	}
	out, err := s.repo.UpsertStage(ctx, l)
	if err != nil {
		return application.Stage{}, fmt.Errorf("save stage: %w", err)
	}
	return out, nil
}

func lookup(in Input) (application.Lookup, error) {
	in.Slug = Slugify(in.Slug)
	if err := validate.Struct(in); err != nil {
		return application.Lookup{}, err
	}
	return application.Lookup{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(in.Name),
		Slug:      in.Slug,
		Color:     in.Color,
		SortOrder: in.SortOrder,
	}, nil
}

// Slugify lower-cases s and joins its words with underscores.
func Slugify(s string) string {
	f := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(f, "_")
}
