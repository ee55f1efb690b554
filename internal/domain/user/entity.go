package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleManager   Role = "manager"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	IsActive     bool
	AvatarPath   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the candidate-facing part of an account.
type Profile struct {
	UserID          uuid.UUID
	Headline        string
	Bio             string
	Location        string
	Phone           string
	Skills          []string
	ExperienceYears int
	UpdatedAt       time.Time
}

type ListFilter struct {
	Role   Role
	Limit  int
	Offset int
}
