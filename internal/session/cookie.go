package session

import (
	"net/http"
)

const (
	// CookieName carries the raw Keycloak access token. Its lifetime is
	// the token's own expiry; no cookie expiry is set.
	CookieName = "access_token"

	// IDTokenCookieName optionally carries the id_token used as a
	// logout hint.
	IDTokenCookieName = "id_token"
)

// CookieOptions defines how bearer cookies are issued.
type CookieOptions struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if !o.HttpOnly {
		o.HttpOnly = true // secure default
	}
	return o
}

// SetCookie issues the bearer cookie to the client.
func SetCookie(
	w http.ResponseWriter,
	accessToken string,
	opts CookieOptions,
) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    accessToken,
		Path:     opts.Path,
		Domain:   opts.Domain,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the bearer cookie from the client.
func ClearCookie(
	w http.ResponseWriter,
	opts CookieOptions,
) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// Token extracts the bearer token from the request cookie, or "" when
// absent.
func Token(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
