package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleHomeowner = "homeowner"
	RoleProvider  = "provider"

	AuthMethodEmail  = "email"
	AuthMethodGoogle = "google"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GoogleID     *string   `json:"-"`
	AvatarURL    *string   `json:"picture,omitempty"`
	Role         string    `json:"userType"`
	AuthMethod   string    `json:"authMethod"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MemberSummary is the lightweight projection of a user shown in group listings.
type MemberSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	AvatarURL *string   `json:"picture,omitempty"`
}

func (u *User) Summary() MemberSummary {
	return MemberSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

func ValidRole(role string) bool {
	return role == RoleHomeowner || role == RoleProvider
}
