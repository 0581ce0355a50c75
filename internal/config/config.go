package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the portal needs: its own base URL, the Keycloak
// endpoints (internal for server-to-server calls, external for browser
// redirects) and the two database pools.
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"5000"`
	BaseURL string `env:"BASE_URL,required"`

	KeycloakBaseURL     string `env:"KEYCLOAK_BASE_URL,required"`
	KeycloakExternalURL string `env:"KEYCLOAK_EXTERNAL_URL,required"`
	Realm               string `env:"REALM,required"`
	ClientID            string `env:"CLIENT_ID,required"`
	ClientSecret        string `env:"CLIENT_SECRET,required"`

	// PublicKey is the base64 body of the realm RS256 public key,
	// without PEM header and footer lines.
	PublicKey string `env:"PUBLIC_KEY,required"`

	DatabaseDSN         string `env:"DATABASE_DSN,required"`
	KeycloakDatabaseDSN string `env:"KEYCLOAK_DATABASE_DSN,required"`
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// TokenURL is the internal token endpoint used for the code exchange.
func (c Config) TokenURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.KeycloakBaseURL, c.Realm)
}

// AuthURL is the external authorization endpoint the browser is sent to.
func (c Config) AuthURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/auth", c.KeycloakExternalURL, c.Realm)
}

// LogoutURL is the external end-session endpoint.
func (c Config) LogoutURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/logout", c.KeycloakExternalURL, c.Realm)
}

// UserInfoURL is the internal userinfo endpoint.
func (c Config) UserInfoURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/userinfo", c.KeycloakBaseURL, c.Realm)
}

// RoleMappingsURL is the admin endpoint listing all role mappings of a user.
func (c Config) RoleMappingsURL(userID string) string {
	return fmt.Sprintf("%s/admin/realms/%s/users/%s/role-mappings", c.KeycloakBaseURL, c.Realm, userID)
}

// RedirectURI is where Keycloak sends the browser back after login.
func (c Config) RedirectURI() string {
	return c.BaseURL + "/keycloak/login/callback"
}
