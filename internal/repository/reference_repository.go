package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/application"
)

// PostgresReferenceRepository serves the application_statuses and
// hiring_stages lookup tables.
type PostgresReferenceRepository struct {
	db database.DB
}

func NewPostgresReferenceRepository(db database.DB) *PostgresReferenceRepository {
	return &PostgresReferenceRepository{db: db}
}

func (r *PostgresReferenceRepository) ListStatuses(ctx context.Context) ([]application.Status, error) {
	return r.list(ctx, "application_statuses")
}

func (r *PostgresReferenceRepository) ListStages(ctx context.Context) ([]application.Stage, error) {
	return r.list(ctx, "hiring_stages")
}

func (r *PostgresReferenceRepository) StatusBySlug(ctx context.Context, slug string) (application.Status, error) {
	return r.bySlug(ctx, "application_statuses", slug)
}

func (r *PostgresReferenceRepository) StageBySlug(ctx context.Context, slug string) (application.Stage, error) {
	return r.bySlug(ctx, "hiring_stages", slug)
}

func (r *PostgresReferenceRepository) UpsertStatus(ctx context.Context, s application.Status) (application.Status, error) {
	return r.upsert(ctx, "application_statuses", s)
}

func (r *PostgresReferenceRepository) UpsertStage(ctx context.Context, s application.Stage) (application.Stage, error) {
	return r.upsert(ctx, "hiring_stages", s)
}

// table is always one of the two constants above, never user input.
func (r *PostgresReferenceRepository) list(ctx context.Context, table string) ([]application.Lookup, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, color, sort_order FROM `+table+` ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Lookup, 0)
	for rows.Next() {
		var l application.Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.Slug, &l.Color, &l.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresReferenceRepository) bySlug(ctx context.Context, table, slug string) (application.Lookup, error) {
	var l application.Lookup
	row := r.db.QueryRow(ctx, `SELECT id, name, slug, color, sort_order FROM `+table+` WHERE slug = $1`, slug)
	if err := row.Scan(&l.ID, &l.Name, &l.Slug, &l.Color, &l.SortOrder); err != nil {
		if postgres.IsNoRows(err) {
			return application.Lookup{}, application.ErrLookupNotFound
		}
		return application.Lookup{}, err
	}
	return l, nil
}

func (r *PostgresReferenceRepository) upsert(ctx context.Context, table string, l application.Lookup) (application.Lookup, error) {
	var out application.Lookup
	row := r.db.QueryRow(ctx,
		`INSERT INTO `+table+` (id, name, slug, color, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (slug) DO UPDATE
		 SET name = EXCLUDED.name, color = EXCLUDED.color, sort_order = EXCLUDED.sort_order
		 RETURNING id, name, slug, color, sort_order`,
		l.ID, l.Name, l.Slug, l.Color, l.SortOrder,
	)
	if err := row.Scan(&out.ID, &out.Name, &out.Slug, &out.Color, &out.SortOrder); err != nil {
		return application.Lookup{}, err
	}
	return out, nil
}

var _ application.ReferenceRepository = (*PostgresReferenceRepository)(nil)
