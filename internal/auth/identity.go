package auth

import (
	"keycloak-portal/internal/token"
	"keycloak-portal/internal/user"
)

// UserFromClaims builds a user record from a decoded token payload,
// renaming the subject claim to the record id.
func UserFromClaims(c token.Claims) user.User {
	return user.User{
		ID:                c.Subject,
		Email:             c.Email,
		EmailVerified:     c.EmailVerified,
		Name:              c.Name,
		PreferredUsername: c.PreferredUsername,
		GivenName:         c.GivenName,
		FamilyName:        c.FamilyName,
	}
}
