package user

// User is the locally persisted projection of a Keycloak identity,
// keyed by the provider subject. Created lazily on first login and
// never updated or deleted here.
type User struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
}
