package repository

import (
	"context"
	"strings"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobListingSelect = `SELECT j.id, j.company_id, j.title, j.description, j.location, j.employment_type,
	j.salary_min, j.salary_max, j.status, j.deadline, j.created_at, j.updated_at,
	c.name, c.is_active
	FROM jobs j
	JOIN companies c ON c.id = j.company_id`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, company_id, title, description, location, employment_type, salary_min, salary_max, status, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		j.ID, j.CompanyID, j.Title, j.Description, j.Location, j.EmploymentType,
		j.SalaryMin, j.SalaryMax, string(j.Status), j.Deadline,
	)
	return err
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	return scanListing(r.db.QueryRow(ctx, jobListingSelect+` WHERE j.id = $1`, id))
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) error {
	n, err := r.db.Exec(ctx,
		`UPDATE jobs
		 SET title = $1, description = $2, location = $3, employment_type = $4,
		     salary_min = $5, salary_max = $6, status = $7, deadline = $8, updated_at = now()
		 WHERE id = $9`,
		j.Title, j.Description, j.Location, j.EmploymentType,
		j.SalaryMin, j.SalaryMax, string(j.Status), j.Deadline, j.ID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Listing, error) {
	rows, err := r.db.Query(ctx, jobListingSelect+` WHERE j.company_id = $1 ORDER BY j.created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

func (r *PostgresJobRepository) ListOpen(ctx context.Context, f job.ListFilter) ([]job.Listing, error) {
	rows, err := r.db.Query(ctx,
		jobListingSelect+`
		 WHERE j.status = 'active'
		   AND c.is_active
		   AND (j.deadline IS NULL OR j.deadline >= $1)
		   AND (cardinality($2::text[]) = 0 OR EXISTS (
		        SELECT 1 FROM unnest($2::text[]) AS q(term)
		         WHERE j.title ILIKE '%' || q.term || '%'
		            OR j.description ILIKE '%' || q.term || '%'
		            OR c.name ILIKE '%' || q.term || '%'))
		   AND ($3 = '' OR j.location ILIKE '%' || $3 || '%')
		 ORDER BY j.created_at DESC
		 LIMIT $4 OFFSET $5`,
		f.Now, terms(f.Terms), strings.TrimSpace(f.Location), f.Limit, f.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

func (r *PostgresJobRepository) CountApplications(ctx context.Context, jobID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM job_applications WHERE job_id = $1`, jobID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func terms(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func collectListings(rows database.Rows) ([]job.Listing, error) {
	defer rows.Close()

	out := make([]job.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanListing(row database.Row) (job.Listing, error) {
	var l job.Listing
	var status string
	if err := row.Scan(
		&l.ID, &l.CompanyID, &l.Title, &l.Description, &l.Location, &l.EmploymentType,
		&l.SalaryMin, &l.SalaryMax, &status, &l.Deadline, &l.CreatedAt, &l.UpdatedAt,
		&l.CompanyName, &l.CompanyActive,
	); err != nil {
		if postgres.IsNoRows(err) {
			return job.Listing{}, job.ErrNotFound
		}
		return job.Listing{}, err
	}
	l.Status = job.Status(status)
	return l, nil
}

var _ job.Repository = (*PostgresJobRepository)(nil)
