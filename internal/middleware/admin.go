package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"keycloak-portal/internal/keycloak"
	"keycloak-portal/internal/logger"
	"keycloak-portal/internal/session"
	"keycloak-portal/internal/token"
)

// AdminGate guards the admin route group. It decodes the bearer cookie
// for the subject and asks Keycloak whether that user holds the
// realm-admin role. A clean "no" is 403; any failure during the check
// is 401 with the reason.
func AdminGate(codec *token.Codec, client *keycloak.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := session.Token(c.Request)
		if raw == "" {
			// No token means no roles; not-admin, not an error.
			forbid(c)
			return
		}

		claims, err := codec.Decode(c.Request.Context(), raw)
		if err != nil {
			unauthorized(c, "token rejected", err)
			return
		}

		admin, err := client.IsRealmAdmin(c.Request.Context(), raw, claims.Subject)
		if err != nil {
			unauthorized(c, "role lookup failed", err)
			return
		}

		if !admin {
			logger.Warn("admin access denied", map[string]any{
				"user_id": claims.Subject,
				"path":    c.Request.URL.Path,
			})
			forbid(c)
			return
		}

		c.Next()
	}
}

func forbid(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"detail": "realm-admin role required",
	})
}

func unauthorized(c *gin.Context, reason string, err error) {
	logger.Error("admin check failed", map[string]any{
		"reason": reason,
		"path":   c.Request.URL.Path,
		"error":  err.Error(),
	})
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"detail": "admin check failed: " + reason,
	})
}
