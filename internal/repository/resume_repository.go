package repository

import (
	"context"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/resume"

	"github.com/google/uuid"
)

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

const resumeColumns = `id, user_id, title, notes, file_path, file_name, mime_type, file_size, is_default, created_at`

const enhancementColumns = `id, resume_version_id, section, original_text, suggested_text, status, created_at, updated_at`

func (r *PostgresResumeRepository) CreateVersion(ctx context.Context, v resume.Version) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO resume_versions (`+resumeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.ID, v.UserID, v.Title, v.Notes, v.FilePath, v.FileName, v.MimeType, v.FileSize, v.IsDefault, v.CreatedAt,
	)
	return err
}

func (r *PostgresResumeRepository) GetVersion(ctx context.Context, id uuid.UUID) (resume.Version, error) {
	return scanResumeVersion(r.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resume_versions WHERE id = $1`, id))
}

func (r *PostgresResumeRepository) ListVersions(ctx context.Context, userID uuid.UUID) ([]resume.Version, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+resumeColumns+` FROM resume_versions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resume.Version, 0)
	for rows.Next() {
		v, err := scanResumeVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresResumeRepository) UpdateVersion(ctx context.Context, v resume.Version) error {
	n, err := r.db.Exec(ctx, `UPDATE resume_versions SET title = $1, notes = $2 WHERE id = $3`, v.Title, v.Notes, v.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func (r *PostgresResumeRepository) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE resume_versions SET is_default = FALSE WHERE user_id = $1 AND is_default`, userID); err != nil {
			return err
		}
		n, err := tx.Exec(ctx,
			`UPDATE resume_versions SET is_default = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return resume.ErrNotFound
		}
		return nil
	})
}

func (r *PostgresResumeRepository) DeleteAndPromote(ctx context.Context, userID, id uuid.UUID) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var wasDefault bool
		if err := tx.QueryRow(ctx,
			`DELETE FROM resume_versions WHERE id = $1 AND user_id = $2 RETURNING is_default`, id, userID,
		).Scan(&wasDefault); err != nil {
			if postgres.IsNoRows(err) {
				return resume.ErrNotFound
			}
			return err
		}
		if !wasDefault {
			return nil
		}
		_, err := tx.Exec(ctx,
			`UPDATE resume_versions SET is_default = TRUE
			 WHERE id = (SELECT id FROM resume_versions WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1)`,
			userID,
		)
		return err
	})
}

func (r *PostgresResumeRepository) CreateEnhancement(ctx context.Context, e resume.Enhancement) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO resume_enhancements (`+enhancementColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.ResumeVersionID, e.Section, e.OriginalText, e.SuggestedText, string(e.Status), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil && postgres.IsForeignKeyViolation(err) {
		return resume.ErrNotFound
	}
	return err
}

func (r *PostgresResumeRepository) GetEnhancement(ctx context.Context, id uuid.UUID) (resume.Enhancement, error) {
	return scanEnhancement(r.db.QueryRow(ctx, `SELECT `+enhancementColumns+` FROM resume_enhancements WHERE id = $1`, id))
}

func (r *PostgresResumeRepository) ListEnhancements(ctx context.Context, versionID uuid.UUID) ([]resume.Enhancement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+enhancementColumns+` FROM resume_enhancements WHERE resume_version_id = $1 ORDER BY created_at ASC`, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resume.Enhancement, 0)
	for rows.Next() {
		e, err := scanEnhancement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresResumeRepository) UpdateEnhancementStatus(ctx context.Context, id uuid.UUID, status resume.EnhancementStatus, at time.Time) error {
	n, err := r.db.Exec(ctx, `UPDATE resume_enhancements SET status = $1, updated_at = $2 WHERE id = $3`, string(status), at, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return resume.ErrEnhancementNotFound
	}
	return nil
}

func (r *PostgresResumeRepository) DeleteEnhancement(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM resume_enhancements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return resume.ErrEnhancementNotFound
	}
	return nil
}

func scanResumeVersion(row database.Row) (resume.Version, error) {
	var v resume.Version
	if err := row.Scan(&v.ID, &v.UserID, &v.Title, &v.Notes, &v.FilePath, &v.FileName, &v.MimeType,
		&v.FileSize, &v.IsDefault, &v.CreatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return resume.Version{}, resume.ErrNotFound
		}
		return resume.Version{}, err
	}
	return v, nil
}

func scanEnhancement(row database.Row) (resume.Enhancement, error) {
	var e resume.Enhancement
	var status string
	if err := row.Scan(&e.ID, &e.ResumeVersionID, &e.Section, &e.OriginalText, &e.SuggestedText,
		&status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return resume.Enhancement{}, resume.ErrEnhancementNotFound
		}
		return resume.Enhancement{}, err
	}
	e.Status = resume.EnhancementStatus(status)
	return e, nil
}

var _ resume.Repository = (*PostgresResumeRepository)(nil)
