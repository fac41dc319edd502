package models

import "time"

// User roles. Creators may publish manhwas; admins additionally manage
// users and jobs.
const (
	RoleReader  = "reader"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the recognized user roles.
func ValidRole(role string) bool {
	return role == RoleReader || role == RoleCreator || role == RoleAdmin
}
