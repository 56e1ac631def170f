package events

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's platform role.
type Role string

const (
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
	RoleAdmin   Role = "Admin"
)

// UserStatus is a user's account standing.
type UserStatus string

const (
	UserStatusActive    UserStatus = "Active"
	UserStatusSuspended UserStatus = "Suspended"
)

// UserCreated is emitted by the auth service when an account is registered.
type UserCreated struct {
	ID        uuid.UUID  `json:"id"`
	Gmail     string     `json:"gmail"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (UserCreated) Subject() Subject { return SubjectUserCreated }

// UserUpdated carries only the fields the update touched; nil means
// unchanged.
type UserUpdated struct {
	ID        uuid.UUID   `json:"id"`
	Gmail     *string     `json:"gmail,omitempty"`
	Role      *Role       `json:"role,omitempty"`
	Status    *UserStatus `json:"status,omitempty"`
	FirstName *string     `json:"firstName,omitempty"`
	LastName  *string     `json:"lastName,omitempty"`
	IsDeleted *bool       `json:"isDeleted,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (UserUpdated) Subject() Subject { return SubjectUserUpdated }
