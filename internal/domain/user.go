package domain

import "time"

// Role distinguishes regular users from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account. PasswordHash is opaque to every layer
// except the auth package.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Bio          *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
