package dto

import (
	"time"

	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      user.Role `json:"role"`
	IsActive  bool      `json:"is_active"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u user.User, files FileURLer) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		AvatarURL: fileURL(files, u.AvatarPath),
		CreatedAt: u.CreatedAt,
	}
}

type ProfileResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	Headline        string    `json:"headline"`
	Bio             string    `json:"bio"`
	Location        string    `json:"location"`
	Phone           string    `json:"phone"`
	Skills          []string  `json:"skills"`
	ExperienceYears int       `json:"experience_years"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewProfileResponse(p user.Profile) ProfileResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		UserID:          p.UserID,
		Headline:        p.Headline,
		Bio:             p.Bio,
		Location:        p.Location,
		Phone:           p.Phone,
		Skills:          skills,
		ExperienceYears: p.ExperienceYears,
		UpdatedAt:       p.UpdatedAt,
	}
}

type SessionResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}
