package auth

import (
	"errors"
	"fmt"
	"net/http"

	"keycloak-portal/internal/keycloak"
	"keycloak-portal/internal/logger"
	"keycloak-portal/internal/session"
	"keycloak-portal/internal/token"
	"keycloak-portal/internal/user"
)

// CookieUser decodes the bearer cookie locally. Fast, but only as
// fresh as the token itself.
func CookieUser(r *http.Request, codec *token.Codec) (user.User, error) {
	raw := session.Token(r)
	if raw == "" {
		return user.User{}, ErrNoAccessToken
	}

	claims, err := codec.Decode(r.Context(), raw)
	if err != nil {
		logger.Error("cookie token rejected", map[string]any{
			"error": err.Error(),
		})
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return UserFromClaims(claims), nil
}

// ServerUser asks Keycloak who the bearer cookie belongs to. Slower
// than CookieUser but authoritative.
func ServerUser(r *http.Request, client *keycloak.Client) (map[string]any, error) {
	raw := session.Token(r)
	if raw == "" {
		return nil, ErrNoAccessToken
	}

	info, err := client.FetchUserInfo(r.Context(), raw)
	if err != nil {
		logger.Error("userinfo lookup rejected", map[string]any{
			"error": err.Error(),
		})
		// A transport failure is not a verdict on the token. Keep the
		// kind so it surfaces as a server error, not a login redirect.
		if errors.Is(err, keycloak.ErrRequest) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return info, nil
}
