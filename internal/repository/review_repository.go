package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/review"

	"github.com/google/uuid"
)

type PostgresReviewRepository struct {
	db database.DB
}

func NewPostgresReviewRepository(db database.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

const reviewSelect = `SELECT r.id, r.user_id, r.company_id, r.rating, r.title, r.body, r.pros, r.cons,
	r.is_anonymous, u.full_name, r.created_at, r.updated_at
	FROM company_reviews r
	JOIN users u ON u.id = r.user_id`

func (r *PostgresReviewRepository) Create(ctx context.Context, rv review.Review) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO company_reviews (id, user_id, company_id, rating, title, body, pros, cons, is_anonymous, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		rv.ID, rv.UserID, rv.CompanyID, rv.Rating, rv.Title, rv.Body, rv.Pros, rv.Cons, rv.IsAnonymous, rv.CreatedAt,
	)
	if err != nil && postgres.IsUniqueViolation(err) {
		return review.ErrDuplicate
	}
	return err
}

func (r *PostgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (review.Review, error) {
	return scanReview(r.db.QueryRow(ctx, reviewSelect+` WHERE r.id = $1`, id))
}

func (r *PostgresReviewRepository) ExistsForUser(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM company_reviews WHERE user_id = $1 AND company_id = $2)`, userID, companyID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresReviewRepository) Update(ctx context.Context, rv review.Review) error {
	n, err := r.db.Exec(ctx,
		`UPDATE company_reviews
		 SET rating = $1, title = $2, body = $3, pros = $4, cons = $5, is_anonymous = $6, updated_at = $7
		 WHERE id = $8`,
		rv.Rating, rv.Title, rv.Body, rv.Pros, rv.Cons, rv.IsAnonymous, rv.UpdatedAt, rv.ID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (r *PostgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM company_reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (r *PostgresReviewRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]review.Review, error) {
	rows, err := r.db.Query(ctx, reviewSelect+` WHERE r.company_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

func (r *PostgresReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]review.Review, error) {
	rows, err := r.db.Query(ctx, reviewSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

func (r *PostgresReviewRepository) Summarize(ctx context.Context, companyID uuid.UUID) (review.Summary, error) {
	s := review.Summary{CompanyID: companyID}
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8 FROM company_reviews WHERE company_id = $1`,
		companyID,
	)
	if err := row.Scan(&s.Count, &s.Average); err != nil {
		return review.Summary{}, err
	}
	return s, nil
}

func collectReviews(rows database.Rows) ([]review.Review, error) {
	defer rows.Close()

	out := make([]review.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanReview(row database.Row) (review.Review, error) {
	var rv review.Review
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.CompanyID, &rv.Rating, &rv.Title, &rv.Body, &rv.Pros, &rv.Cons,
		&rv.IsAnonymous, &rv.AuthorName, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return review.Review{}, review.ErrNotFound
		}
		return review.Review{}, err
	}
	return rv, nil
}

var _ review.Repository = (*PostgresReviewRepository)(nil)
