package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errEmailTaken         = usecase.Conflict("email already registered")
	errInvalidCredentials = usecase.Unauthorized("invalid email or password")
	errInactive           = usecase.Unauthorized("account is deactivated")
	errInvalidRefresh     = usecase.Unauthorized("invalid refresh token")
	errRefreshExpired     = usecase.Unauthorized("refresh token expired")
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"notblank,max=255"`
	Role     string `json:"role" validate:"required,oneof=candidate manager"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is what a successful register, login or refresh hands back.
type Session struct {
	User         user.User
	AccessToken  string
	RefreshToken string
}

type Service struct {
	users user.Repository
	jwt   jwt.Service
	now   func() time.Time
}

func NewService(users user.Repository, jwtSvc jwt.Service) *Service {
	return &Service{users: users, jwt: jwtSvc, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Email = NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validate.Struct(in); err != nil {
		return Session{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return Session{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return Session{}, errEmailTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	now := s.now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         user.Role(in.Role),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Session{}, errEmailTaken
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, errInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, errInvalidCredentials
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if err := CheckPassword(u.PasswordHash, in.Password); err != nil {
		return Session{}, errInvalidCredentials
	}
	if !u.IsActive {
		return Session{}, errInactive
	}

	return s.issue(u)
}

// Refresh exchanges a refresh token for a new pair. The user is reloaded so
// role changes and deactivation apply immediately.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, errInvalidRefresh
	}
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, errRefreshExpired
		}
		return Session{}, errInvalidRefresh
	}
	if !s.jwt.IsRefreshToken(claims) {
		return Session{}, errInvalidRefresh
	}

	u, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, errInvalidRefresh
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if !u.IsActive {
		return Session{}, errInactive
	}

	return s.issue(u)
}

func (s *Service) issue(u user.User) (Session, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return Session{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Session{User: Sanitize(u), AccessToken: access, RefreshToken: refresh}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func Sanitize(u user.User) user.User {
	u.PasswordHash = ""
	return u
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}
