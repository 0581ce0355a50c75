package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"keycloak-portal/internal/session"
)

// Logout clears the bearer cookie and sends the browser to the
// Keycloak end-session endpoint.
func (h *Handler) Logout(c *gin.Context) {
	params := url.Values{
		"client_id":                {h.cfg.ClientID},
		"post_logout_redirect_uri": {h.cfg.BaseURL},
	}

	if idCookie, err := c.Request.Cookie(session.IDTokenCookieName); err == nil && idCookie.Value != "" {
		params.Set("id_token_hint", idCookie.Value)
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, h.cfg.LogoutURL()+"?"+params.Encode())
}
