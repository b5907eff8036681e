package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleParticipant:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actor is the authenticated identity attached to a request.
// A nil *Actor means the request is anonymous.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

func (a *Actor) Is(id uuid.UUID) bool {
	return a != nil && a.ID == id
}
