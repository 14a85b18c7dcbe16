package domain

import "time"

const (
	RolePhotographer = "photographer"
	RoleClient       = "client"
	RoleAdmin        = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RolePhotographer, RoleClient, RoleAdmin:
		return true
	}
	return false
}

// User models an authenticated actor in the system.
// PasswordHash is empty for clients.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	RegistrationDate time.Time `json:"registration_date"`
	EventIDs         []string  `json:"event_ids"`
}

// CanUpload reports whether the user's role may upload or delete photos.
func (u *User) CanUpload() bool {
	return u.Role == RolePhotographer || u.Role == RoleAdmin
}
