package seeder

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"jobboard/internal/database"
	"jobboard/internal/domain/application"
	"jobboard/internal/repository"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var referenceYAML []byte

type ReferenceEntry struct {
	Name  string `yaml:"name"`
	Slug  string `yaml:"slug"`
	Color string `yaml:"color"`
}

// ReferenceData is the ordered list of statuses and stages. Sort order
// follows the position in the file.
type ReferenceData struct {
	Statuses []ReferenceEntry `yaml:"statuses"`
	Stages   []ReferenceEntry `yaml:"stages"`
}

func ParseReference(raw []byte) (ReferenceData, error) {
	var data ReferenceData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return ReferenceData{}, fmt.Errorf("parse reference data: %w", err)
	}
	for _, group := range [][]ReferenceEntry{data.Statuses, data.Stages} {
		seen := map[string]bool{}
		for _, e := range group {
			slug := strings.TrimSpace(e.Slug)
			if slug == "" || strings.TrimSpace(e.Name) == "" {
				return ReferenceData{}, fmt.Errorf("reference entry %q: name and slug are required", e.Name)
			}
			if seen[slug] {
				return ReferenceData{}, fmt.Errorf("duplicate reference slug %q", slug)
			}
			seen[slug] = true
		}
	}
	if !containsSlug(data.Statuses, application.StatusPending) || !containsSlug(data.Stages, application.StageApplied) {
		return ReferenceData{}, fmt.Errorf("reference data must define %q status and %q stage", application.StatusPending, application.StageApplied)
	}
	return data, nil
}

func containsSlug(entries []ReferenceEntry, slug string) bool {
	for _, e := range entries {
		if e.Slug == slug {
			return true
		}
	}
	return false
}

// ReferenceSeeder upserts application statuses and hiring stages by slug.
// A nil Data falls back to the embedded defaults.
type ReferenceSeeder struct {
	Data []byte
}

func (ReferenceSeeder) Name() string { return "reference" }

func (s ReferenceSeeder) Run(ctx context.Context, db database.DB) error {
	for _, table := range []string{"application_statuses", "hiring_stages"} {
		if err := EnsureTableColumns(ctx, db, table, "id", "name", "slug", "color", "sort_order"); err != nil {
			return err
		}
	}
	return s.Apply(ctx, repository.NewPostgresReferenceRepository(db))
}

func (s ReferenceSeeder) Apply(ctx context.Context, refs application.ReferenceRepository) error {
	raw := s.Data
	if raw == nil {
		raw = referenceYAML
	}
	data, err := ParseReference(raw)
	if err != nil {
		return err
	}

	for i, e := range data.Statuses {
		if _, err := refs.UpsertStatus(ctx, lookup(e, i)); err != nil {
			return fmt.Errorf("upsert status %s: %w", e.Slug, err)
		}
	}
	for i, e := range data.Stages {
		if _, err := refs.UpsertStage(ctx, lookup(e, i)); err != nil {
			return fmt.Errorf("upsert stage %s: %w", e.Slug, err)
		}
	}
	return nil
}

func lookup(e ReferenceEntry, idx int) application.Lookup {
	return application.Lookup{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(e.Name),
		Slug:      strings.TrimSpace(e.Slug),
		Color:     strings.TrimSpace(e.Color),
		SortOrder: idx + 1,
	}
}
