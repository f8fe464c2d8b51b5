package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RoleEncoder = "encoder"
	RoleViewer  = "viewer"
)

// User is an operator account. PasswordHash may hold a legacy hash until the
// user's next successful login upgrades it to bcrypt.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	FullName     string     `gorm:"type:varchar(128)" json:"full_name"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"type:varchar(16);not null;default:'viewer'" json:"role"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// ChangePasswordRequest is the payload for changing one's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// CreateUserRequest is the admin payload for creating an account.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64,alphanum"`
	FullName string `json:"full_name" binding:"max=128"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=admin encoder viewer"`
}

// UpdateUserRequest is the admin payload for editing an account. Nil fields
// are left untouched.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=128"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin encoder viewer"`
	Active   *bool   `json:"active"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
}
