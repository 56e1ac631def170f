package auth

import (
	"time"

	"github.com/google/uuid"

	"questify/pkg/events"
)

// User is the account record owned by the auth service. Other services see
// it only through UserCreated/UserUpdated events and the public API shape.
type User struct {
	ID           uuid.UUID
	Gmail        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Role         events.Role
	Status       events.UserStatus
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public strips the credential material for API responses.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Gmail:     u.Gmail,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Status:    u.Status,
	}
}

// PublicUser is the wire shape for a user.
type PublicUser struct {
	ID        uuid.UUID         `json:"id"`
	Gmail     string            `json:"gmail"`
	FirstName string            `json:"firstName,omitempty"`
	LastName  string            `json:"lastName,omitempty"`
	Role      events.Role       `json:"role"`
	Status    events.UserStatus `json:"status"`
}
