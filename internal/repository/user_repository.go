package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, role, is_active, avatar_path, created_at, updated_at`

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, full_name, role, is_active, avatar_path)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			u.ID, u.Email, u.PasswordHash, u.FullName, string(u.Role), u.IsActive, u.AvatarPath,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return user.ErrEmailTaken
			}
			return err
		}
		if u.Role != user.RoleCandidate {
			return nil
		}
		_, err = tx.Exec(ctx, `INSERT INTO candidate_profiles (user_id) VALUES ($1)`, u.ID)
		return err
	})
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, u user.User) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users
		 SET email = $1, password_hash = $2, full_name = $3, is_active = $4, avatar_path = $5, updated_at = now()
		 WHERE id = $6`,
		u.Email, u.PasswordHash, u.FullName, u.IsActive, u.AvatarPath, u.ID,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ListUsers(ctx context.Context, f user.ListFilter) ([]user.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE ($1 = '' OR role = $1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		string(f.Role), f.Limit, f.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, headline, bio, location, phone, skills, experience_years, updated_at
		 FROM candidate_profiles WHERE user_id = $1`,
		userID,
	)
	var p user.Profile
	if err := row.Scan(&p.UserID, &p.Headline, &p.Bio, &p.Location, &p.Phone, &p.Skills, &p.ExperienceYears, &p.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return user.Profile{}, user.ErrNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}

func (r *PostgresUserRepository) UpsertProfile(ctx context.Context, p user.Profile) error {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO candidate_profiles (user_id, headline, bio, location, phone, skills, experience_years, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (user_id) DO UPDATE
		 SET headline = EXCLUDED.headline, bio = EXCLUDED.bio, location = EXCLUDED.location,
		     phone = EXCLUDED.phone, skills = EXCLUDED.skills,
		     experience_years = EXCLUDED.experience_years, updated_at = now()`,
		p.UserID, p.Headline, p.Bio, p.Location, p.Phone, skills, p.ExperienceYears,
	)
	if err != nil && postgres.IsForeignKeyViolation(err) {
		return user.ErrNotFound
	}
	return err
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &role, &u.IsActive, &u.AvatarPath, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}

var _ user.Repository = (*PostgresUserRepository)(nil)
