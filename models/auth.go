package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated actor behind a request.
type Identity struct {
	UserID string   `json:"userId"`
	Role   UserRole `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == UserRoleAdmin
}

// JWTClaims represents the JWT claims
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`

	jwt.RegisteredClaims
}

// Identity returns the actor described by the claims.
func (c *JWTClaims) Identity() Identity {
	return Identity{UserID: c.UserID, Role: c.Role}
}
