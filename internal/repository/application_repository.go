package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/application"

	"github.com/google/uuid"
)

var errTransitionFrom = errors.New("transition needs the previous status and stage")

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationDetailSelect = `SELECT a.id, a.user_id, a.job_id, a.status_id, a.stage_id, a.cover_letter,
	a.resume_version_id, a.resume_title, a.resume_path, a.applied_at, a.updated_at,
	s.id, s.name, s.slug, s.color, s.sort_order,
	st.id, st.name, st.slug, st.color, st.sort_order,
	j.title, j.location, c.id, c.name, c.owner_id, u.full_name, u.email,
	COALESCE((SELECT array_agg(ap.portfolio_item_id) FROM application_portfolio_items ap WHERE ap.application_id = a.id), '{}')
	FROM job_applications a
	JOIN application_statuses s ON s.id = a.status_id
	JOIN hiring_stages st ON st.id = a.stage_id
	JOIN jobs j ON j.id = a.job_id
	JOIN companies c ON c.id = j.company_id
	JOIN users u ON u.id = a.user_id`

func (r *PostgresApplicationRepository) Exists(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM job_applications WHERE user_id = $1 AND job_id = $2)`, userID, jobID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) CreateWithHistory(ctx context.Context, a application.Application, h application.HistoryEntry) error {
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO job_applications (id, user_id, job_id, status_id, stage_id, cover_letter,
			   resume_version_id, resume_title, resume_path, applied_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
			a.ID, a.UserID, a.JobID, a.StatusID, a.StageID, a.CoverLetter,
			a.ResumeVersionID, a.ResumeTitle, a.ResumePath, a.AppliedAt,
		)
		if err != nil {
			return err
		}

		for _, itemID := range a.PortfolioItemIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO application_portfolio_items (application_id, portfolio_item_id) VALUES ($1, $2)`,
				a.ID, itemID,
			); err != nil {
				return err
			}
		}

		return insertHistory(ctx, tx, h)
	})
	if err != nil && postgres.IsUniqueViolation(err) {
		return application.ErrDuplicate
	}
	return err
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Detail, error) {
	return scanApplicationDetail(r.db.QueryRow(ctx, applicationDetailSelect+` WHERE a.id = $1`, id))
}

func (r *PostgresApplicationRepository) List(ctx context.Context, f application.ListFilter) ([]application.Detail, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != nil {
		add("a.user_id = $%d", *f.UserID)
	}
	if f.CompanyID != nil {
		add("c.id = $%d", *f.CompanyID)
	}
	if f.JobID != nil {
		add("a.job_id = $%d", *f.JobID)
	}
	if s := strings.TrimSpace(f.StatusSlug); s != "" {
		add("s.slug = $%d", s)
	}

	q := applicationDetailSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY a.applied_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Detail, 0)
	for rows.Next() {
		d, err := scanApplicationDetail(rows)
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

func (r *PostgresApplicationRepository) Transition(ctx context.Context, id, statusID, stageID uuid.UUID, h application.HistoryEntry) error {
	if h.FromStatusID == nil || h.FromStageID == nil {
		return errTransitionFrom
	}
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		n, err := tx.Exec(ctx,
			`UPDATE job_applications SET status_id = $1, stage_id = $2, updated_at = $3
			 WHERE id = $4 AND status_id = $5 AND stage_id = $6`,
			statusID, stageID, h.CreatedAt, id, *h.FromStatusID, *h.FromStageID,
		)
		if err != nil {
			return err
		}
		if n == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_applications WHERE id = $1)`, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return application.ErrNotFound
			}
			return application.ErrStale
		}
		return insertHistory(ctx, tx, h)
	})
}

func (r *PostgresApplicationRepository) History(ctx context.Context, id uuid.UUID) ([]application.HistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT h.id, h.application_id, h.from_stage_id, h.to_stage_id, h.from_status_id, h.to_status_id,
		        h.changed_by, h.note, h.created_at,
		        COALESCE(fst.slug, ''), tst.slug, COALESCE(fs.slug, ''), ts.slug
		 FROM application_stage_history h
		 JOIN hiring_stages tst ON tst.id = h.to_stage_id
		 JOIN application_statuses ts ON ts.id = h.to_status_id
		 LEFT JOIN hiring_stages fst ON fst.id = h.from_stage_id
		 LEFT JOIN application_statuses fs ON fs.id = h.from_status_id
		 WHERE h.application_id = $1
		 ORDER BY h.created_at ASC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.HistoryEntry, 0)
	for rows.Next() {
		var h application.HistoryEntry
		if err := rows.Scan(
			&h.ID, &h.ApplicationID, &h.FromStageID, &h.ToStageID, &h.FromStatusID, &h.ToStatusID,
			&h.ChangedBy, &h.Note, &h.CreatedAt,
			&h.FromStage, &h.ToStage, &h.FromStatus, &h.ToStatus,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func insertHistory(ctx context.Context, ex database.Executor, h application.HistoryEntry) error {
	_, err := ex.Exec(ctx,
		`INSERT INTO application_stage_history
		   (id, application_id, from_stage_id, to_stage_id, from_status_id, to_status_id, changed_by, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.ID, h.ApplicationID, h.FromStageID, h.ToStageID, h.FromStatusID, h.ToStatusID,
		h.ChangedBy, h.Note, h.CreatedAt,
	)
	return err
}

func scanApplicationDetail(row database.Row) (application.Detail, error) {
	var d application.Detail
	if err := row.Scan(
		&d.ID, &d.UserID, &d.JobID, &d.StatusID, &d.StageID, &d.CoverLetter,
		&d.ResumeVersionID, &d.ResumeTitle, &d.ResumePath, &d.AppliedAt, &d.UpdatedAt,
		&d.Status.ID, &d.Status.Name, &d.Status.Slug, &d.Status.Color, &d.Status.SortOrder,
		&d.Stage.ID, &d.Stage.Name, &d.Stage.Slug, &d.Stage.Color, &d.Stage.SortOrder,
		&d.JobTitle, &d.JobLocation, &d.CompanyID, &d.CompanyName, &d.ManagerID,
		&d.ApplicantName, &d.ApplicantEmail,
		&d.PortfolioItemIDs,
	); err != nil {
		if postgres.IsNoRows(err) {
			return application.Detail{}, application.ErrNotFound
		}
		return application.Detail{}, err
	}
	return d, nil
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)
