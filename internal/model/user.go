package model

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest is the body accepted by POST /login
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,min=6,max=72"` // bcrypt ignores bytes past 72
}

// UserUpdateRequest replaces every mutable user field. An empty password keeps the stored hash.
type UserUpdateRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password,omitempty" binding:"omitempty,min=6,max=72"`
	Role     string `json:"role,omitempty" binding:"omitempty,oneof=USER ADMIN"`
}

// AuthResponse is returned by registration and login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Actor identifies the authenticated caller of a service operation
type Actor struct {
	UserID int64
	Role   string
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may read or change data owned by ownerID.
func (a Actor) CanAccess(ownerID int64) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
