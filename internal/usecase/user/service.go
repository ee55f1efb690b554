package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"
	ucauth "jobboard/internal/usecase/auth"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	errUserNotFound    = usecase.NotFound("user not found")
	errNotCandidate    = usecase.Forbidden("only candidates have a profile")
	errCannotDemoteOwn = usecase.Rule("is_active", "you cannot deactivate your own account")
)

type UpdateMeInput struct {
	FullName        *string `json:"full_name" validate:"omitempty,notblank,max=255"`
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	CurrentPassword string  `json:"current_password"`
	Password        *string `json:"password" validate:"omitempty,min=8,max=72"`
}

type ProfileInput struct {
	Headline        string   `json:"headline" validate:"max=255"`
	Bio             string   `json:"bio" validate:"max=5000"`
	Location        string   `json:"location" validate:"max=255"`
	Phone           string   `json:"phone" validate:"max=50"`
	Skills          []string `json:"skills" validate:"max=50,dive,notblank,max=100"`
	ExperienceYears int      `json:"experience_years" validate:"min=0,max=80"`
}

type Service struct {
	users   user.Repository
	storage storage.Storage
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(users user.Repository, st storage.Storage, logger zerolog.Logger) *Service {
	return &Service{users: users, storage: st, logger: logger, now: time.Now}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	return ucauth.Sanitize(u), nil
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (user.User, error) {
	if err := validate.Struct(in); err != nil {
		return user.User{}, err
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		u.Email = ucauth.NormalizeEmail(*in.Email)
	}
	if in.Password != nil {
		if err := ucauth.CheckPassword(u.PasswordHash, in.CurrentPassword); err != nil {
			return user.User{}, usecase.Rule("current_password", "current password is incorrect")
		}
		hash, err := ucauth.HashPassword(*in.Password)
		if err != nil {
			return user.User{}, err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.users.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, usecase.Conflict("email already registered")
		}
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	return ucauth.Sanitize(u), nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return user.Profile{}, err
	}
	if u.Role != user.RoleCandidate {
		return user.Profile{}, errNotCandidate
	}
	p, err := s.users.GetProfile(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return user.Profile{UserID: userID, Skills: []string{}}, nil
	}
	if err != nil {
		return user.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (user.Profile, error) {
	if err := validate.Struct(in); err != nil {
		return user.Profile{}, err
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return user.Profile{}, err
	}
	if u.Role != user.RoleCandidate {
		return user.Profile{}, errNotCandidate
	}

	skills := make([]string, 0, len(in.Skills))
	seen := map[string]bool{}
	for _, sk := range in.Skills {
		sk = strings.TrimSpace(sk)
		if seen[strings.ToLower(sk)] {
			continue
		}
		seen[strings.ToLower(sk)] = true
		skills = append(skills, sk)
	}

	p := user.Profile{
		UserID:          userID,
		Headline:        strings.TrimSpace(in.Headline),
		Bio:             strings.TrimSpace(in.Bio),
		Location:        strings.TrimSpace(in.Location),
		Phone:           strings.TrimSpace(in.Phone),
		Skills:          skills,
		ExperienceYears: in.ExperienceYears,
		UpdatedAt:       s.now().UTC(),
	}
	if err := s.users.UpsertProfile(ctx, p); err != nil {
		return user.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

// UploadAvatar replaces the user's avatar. The old file is removed only
// after the new path is saved.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, f usecase.File) (user.User, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	stored, err := usecase.SaveUpload(ctx, s.storage, storage.PrefixAvatars, "avatar", f)
	if err != nil {
		return user.User{}, err
	}

	old := u.AvatarPath
	u.AvatarPath = stored.Path
	u.UpdatedAt = s.now().UTC()
	if err := s.users.UpdateUser(ctx, u); err != nil {
		_ = s.storage.Delete(ctx, stored.Path)
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	if old != "" {
		if err := s.storage.Delete(ctx, old); err != nil {
			s.logger.Warn().Err(err).Str("path", old).Msg("delete old avatar")
		}
	}
	return ucauth.Sanitize(u), nil
}

func (s *Service) List(ctx context.Context, role string, limit, offset int) ([]user.User, error) {
	r := user.Role(role)
	if role != "" && !r.Valid() {
		return nil, usecase.Rule("role", "unknown role")
	}
	limit, offset = usecase.NormalizePage(limit, offset)
	users, err := s.users.ListUsers(ctx, user.ListFilter{Role: r, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i] = ucauth.Sanitize(users[i])
	}
	return users, nil
}

// SetActive enables or disables an account. Admins cannot lock themselves out.
func (s *Service) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (user.User, error) {
	if actorID == userID && !active {
		return user.User{}, errCannotDemoteOwn
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	u.IsActive = active
	u.UpdatedAt = s.now().UTC()
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	return ucauth.Sanitize(u), nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, errUserNotFound
		}
		return user.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}
