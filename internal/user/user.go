package user

import "github.com/google/uuid"

// Role controls access to staff and admin endpoints.
type Role int

const (
	RoleUser Role = iota
	RoleCourier
	RoleCook
	RoleManager
	RoleAdmin
)

// IsStaff reports whether the role may manage orders for a store.
func (r Role) IsStaff() bool {
	return r != RoleUser
}

type User struct {
	ID          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Email       *string   `json:"email,omitempty"`
	Name        *string   `json:"name,omitempty"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	Role        Role      `json:"role"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Scores      int       `json:"scores"`
	CreatedAt   string    `json:"created_at,omitempty"`
}
