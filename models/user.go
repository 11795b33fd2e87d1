package models

import "time"

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleJobSeeker UserRole = "job_seeker"
	UserRoleEmployer  UserRole = "employer"
	UserRoleAdmin     UserRole = "admin"
)

// UserRoles lists every role a stored user can hold.
var UserRoles = []UserRole{UserRoleJobSeeker, UserRoleEmployer, UserRoleAdmin}

// User represents a user in the system. Users are never hard-deleted; IsActive
// is cleared instead.
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Name         string     `json:"name" db:"name"`
	Phone        string     `json:"phone,omitempty" db:"phone"`
	Role         UserRole   `json:"role" db:"role"`
	IsVerified   bool       `json:"isVerified" db:"is_verified"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// RegisterUser represents the request structure for user registration
// @Description User registration request with account details
type RegisterUser struct {
	Email    string   `json:"email" binding:"required,email" example:"grace@example.com"`
	Password string   `json:"password" binding:"required,min=8" example:"securePassword123"`
	Name     string   `json:"name" binding:"required" example:"Grace Akello"`
	Phone    string   `json:"phone,omitempty" example:"+256772000000"`
	Role     UserRole `json:"role" binding:"required,oneof=job_seeker employer" example:"job_seeker"`
}

// LoginRequest carries credentials for POST /user/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetActiveRequest activates or deactivates a user account.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}
