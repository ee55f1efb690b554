package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"
	ucauth "jobboard/internal/usecase/auth"

	"github.com/google/uuid"
)

// AdminSeeder creates the first admin account. It does nothing when Email
// is empty or the account already exists.
type AdminSeeder struct {
	Email    string
	Password string
	FullName string
}

func (AdminSeeder) Name() string { return "admin" }

func (s AdminSeeder) Run(ctx context.Context, db database.DB) error {
	if strings.TrimSpace(s.Email) == "" {
		return nil
	}
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "full_name", "role", "is_active"); err != nil {
		return err
	}
	return s.Apply(ctx, repository.NewPostgresUserRepository(db))
}

func (s AdminSeeder) Apply(ctx context.Context, users user.Repository) error {
	email := ucauth.NormalizeEmail(s.Email)
	if email == "" {
		return nil
	}
	if len(s.Password) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters")
	}

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := ucauth.HashPassword(s.Password)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(s.FullName)
	if name == "" {
		name = "Administrator"
	}

	now := time.Now().UTC()
	return users.CreateUser(ctx, user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     name,
		Role:         user.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
