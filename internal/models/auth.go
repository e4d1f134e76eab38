package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims are the claims carried by an access token issued by the
// external auth service. The user ID is the registered Subject claim.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the auth-service user identifier.
func (c *AccessClaims) UserID() string {
	return c.Subject
}
