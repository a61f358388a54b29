package model

import (
	"github.com/google/uuid"

	"github.com/lib/pq"
)

type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleClinician UserRole = "clinician"
)

type User struct {
	Base
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	Name         string   `db:"name" json:"name"`
	Credentials  string   `db:"credentials" json:"credentials,omitempty"`
	Role         UserRole `db:"role" json:"role"`

	// LocationIDs lists the tenants this user may act in. Admins are
	// not restricted by it.
	LocationIDs pq.StringArray `db:"location_ids" json:"location_ids"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// CanAccessLocation reports whether the user may act in the location.
func (u *User) CanAccessLocation(id uuid.UUID) bool {
	if u.IsAdmin() {
		return true
	}
	for _, lid := range u.LocationIDs {
		if lid == id.String() {
			return true
		}
	}
	return false
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	User      *User  `json:"user"`
}

type CreateUserRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	Name        string   `json:"name" binding:"required"`
	Credentials string   `json:"credentials"`
	Role        UserRole `json:"role" binding:"required,oneof=admin clinician"`
	LocationIDs []string `json:"location_ids"`
}
