package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/portfolio"

	"github.com/google/uuid"
)

type PostgresPortfolioRepository struct {
	db database.DB
}

func NewPostgresPortfolioRepository(db database.DB) *PostgresPortfolioRepository {
	return &PostgresPortfolioRepository{db: db}
}

const portfolioColumns = `id, user_id, title, description, url, technologies, thumbnail_path, created_at, updated_at`

func (r *PostgresPortfolioRepository) Create(ctx context.Context, it portfolio.Item) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO portfolio_items (id, user_id, title, description, url, technologies, thumbnail_path, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		it.ID, it.UserID, it.Title, it.Description, it.URL, nonNilStrings(it.Technologies), it.ThumbnailPath, it.CreatedAt,
	)
	return err
}

func (r *PostgresPortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (portfolio.Item, error) {
	return scanPortfolioItem(r.db.QueryRow(ctx, `SELECT `+portfolioColumns+` FROM portfolio_items WHERE id = $1`, id))
}

func (r *PostgresPortfolioRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]portfolio.Item, error) {
	rows, err := r.db.Query(ctx, `SELECT `+portfolioColumns+` FROM portfolio_items WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]portfolio.Item, 0)
	for rows.Next() {
		it, err := scanPortfolioItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPortfolioRepository) Update(ctx context.Context, it portfolio.Item) error {
	n, err := r.db.Exec(ctx,
		`UPDATE portfolio_items
		 SET title = $1, description = $2, url = $3, technologies = $4, thumbnail_path = $5, updated_at = $6
		 WHERE id = $7`,
		it.Title, it.Description, it.URL, nonNilStrings(it.Technologies), it.ThumbnailPath, it.UpdatedAt, it.ID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return portfolio.ErrNotFound
	}
	return nil
}

func (r *PostgresPortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM portfolio_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return portfolio.ErrNotFound
	}
	return nil
}

func scanPortfolioItem(row database.Row) (portfolio.Item, error) {
	var it portfolio.Item
	if err := row.Scan(&it.ID, &it.UserID, &it.Title, &it.Description, &it.URL, &it.Technologies,
		&it.ThumbnailPath, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return portfolio.Item{}, portfolio.ErrNotFound
		}
		return portfolio.Item{}, err
	}
	return it, nil
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

var _ portfolio.Repository = (*PostgresPortfolioRepository)(nil)
