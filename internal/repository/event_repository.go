package repository

import (
	"context"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/event"

	"github.com/google/uuid"
)

type PostgresEventRepository struct {
	db database.DB
}

func NewPostgresEventRepository(db database.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

const eventDetailSelect = `SELECT e.id, e.application_id, e.created_by, e.title, e.location, e.notes,
	e.starts_at, e.ends_at, e.status, e.attendees, e.created_at, e.updated_at,
	a.user_id, c.id, c.owner_id, j.title
	FROM events e
	JOIN job_applications a ON a.id = e.application_id
	JOIN jobs j ON j.id = a.job_id
	JOIN companies c ON c.id = j.company_id`

func (r *PostgresEventRepository) Create(ctx context.Context, e event.Event) error {
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, application_id, created_by, title, location, notes, starts_at, ends_at, status, attendees)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.ApplicationID, e.CreatedBy, e.Title, e.Location, e.Notes,
		e.StartsAt, e.EndsAt, string(e.Status), attendees,
	)
	return err
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (event.Detail, error) {
	return scanEventDetail(r.db.QueryRow(ctx, eventDetailSelect+` WHERE e.id = $1`, id))
}

func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status event.Status, at time.Time) error {
	n, err := r.db.Exec(ctx, `UPDATE events SET status = $1, updated_at = $2 WHERE id = $3`, string(status), at, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (r *PostgresEventRepository) ListForCandidate(ctx context.Context, userID uuid.UUID) ([]event.Detail, error) {
	rows, err := r.db.Query(ctx, eventDetailSelect+` WHERE a.user_id = $1 ORDER BY e.starts_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *PostgresEventRepository) ListForCompany(ctx context.Context, companyID uuid.UUID) ([]event.Detail, error) {
	rows, err := r.db.Query(ctx, eventDetailSelect+` WHERE c.id = $1 ORDER BY e.starts_at ASC`, companyID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func collectEvents(rows database.Rows) ([]event.Detail, error) {
	defer rows.Close()

	out := make([]event.Detail, 0)
	for rows.Next() {
		d, err := scanEventDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanEventDetail(row database.Row) (event.Detail, error) {
	var d event.Detail
	var status string
	if err := row.Scan(
		&d.ID, &d.ApplicationID, &d.CreatedBy, &d.Title, &d.Location, &d.Notes,
		&d.StartsAt, &d.EndsAt, &status, &d.Attendees, &d.CreatedAt, &d.UpdatedAt,
		&d.CandidateID, &d.CompanyID, &d.ManagerID, &d.JobTitle,
	); err != nil {
		if postgres.IsNoRows(err) {
			return event.Detail{}, event.ErrNotFound
		}
		return event.Detail{}, err
	}
	d.Status = event.Status(status)
	return d, nil
}

var _ event.Repository = (*PostgresEventRepository)(nil)
