package repository

import (
	"context"
	"strings"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/company"

	"github.com/google/uuid"
)

type PostgresCompanyRepository struct {
	db database.DB
}

func NewPostgresCompanyRepository(db database.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

const companyColumns = `id, owner_id, name, description, website, location, logo_path, is_active, created_at, updated_at`

func (r *PostgresCompanyRepository) Create(ctx context.Context, c company.Company) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (id, owner_id, name, description, website, location, logo_path, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.OwnerID, c.Name, c.Description, c.Website, c.Location, c.LogoPath, c.IsActive,
	)
	if err != nil && postgres.IsUniqueViolation(err) {
		return company.ErrAlreadyOwned
	}
	return err
}

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	return scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

func (r *PostgresCompanyRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (company.Company, error) {
	return scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE owner_id = $1`, ownerID))
}

func (r *PostgresCompanyRepository) Update(ctx context.Context, c company.Company) error {
	n, err := r.db.Exec(ctx,
		`UPDATE companies
		 SET name = $1, description = $2, website = $3, location = $4, logo_path = $5, updated_at = now()
		 WHERE id = $6`,
		c.Name, c.Description, c.Website, c.Location, c.LogoPath, c.ID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return company.ErrNotFound
	}
	return nil
}

func (r *PostgresCompanyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	n, err := r.db.Exec(ctx, `UPDATE companies SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return company.ErrNotFound
	}
	return nil
}

func (r *PostgresCompanyRepository) List(ctx context.Context, f company.ListFilter) ([]company.Company, error) {
	q := strings.TrimSpace(f.Query)
	rows, err := r.db.Query(ctx,
		`SELECT `+companyColumns+` FROM companies
		 WHERE ($1 OR is_active)
		   AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		 ORDER BY name ASC
		 LIMIT $3 OFFSET $4`,
		f.IncludeInactive, q, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]company.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanCompany(row database.Row) (company.Company, error) {
	var c company.Company
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Website, &c.Location, &c.LogoPath, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return company.Company{}, company.ErrNotFound
		}
		return company.Company{}, err
	}
	return c, nil
}

var _ company.Repository = (*PostgresCompanyRepository)(nil)
