// Package handler owns the portal's HTTP routes: login initiation,
// the OIDC callback, logout, the protected page, and the read-only
// admin views.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"keycloak-portal/internal/auth"
	"keycloak-portal/internal/config"
	"keycloak-portal/internal/db"
	"keycloak-portal/internal/keycloak"
	"keycloak-portal/internal/token"
)

type Handler struct {
	cfg      config.Config
	keycloak *keycloak.Client
	codec    *token.Codec
	db       *db.DB
}

func New(
	cfg config.Config,
	keycloakClient *keycloak.Client,
	codec *token.Codec,
	database *db.DB,
) *Handler {
	return &Handler{
		cfg:      cfg,
		keycloak: keycloakClient,
		codec:    codec,
		db:       database,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, adminGate gin.HandlerFunc) {
	r.GET("/", h.Index)
	r.GET("/protected", h.Protected)

	kc := r.Group("/keycloak")
	kc.GET("/login/callback", h.LoginCallback)
	kc.GET("/logout", h.Logout)

	admin := r.Group("/admin")
	admin.Use(adminGate)
	admin.GET("/users", h.AdminListUsers)
	admin.GET("/users/:id", h.AdminGetUser)
}

// Index starts the login flow.
func (h *Handler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, h.keycloak.LoginURL())
}

// Protected returns the identity behind the bearer cookie, decoded
// locally.
func (h *Handler) Protected(c *gin.Context) {
	u, err := auth.CookieUser(c.Request, h.codec)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}
