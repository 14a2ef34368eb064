package domain

import "time"

// Roles recognized by the service. Role checks are enforced per route;
// there is no role hierarchy.
const (
	RoleKitchen = "kitchen"
	RoleFOH     = "foh"
	RoleOnline  = "online"
)

// User is an authenticated operator of the system.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  *string   `json:"display_name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
