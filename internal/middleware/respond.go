package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"keycloak-portal/internal/keycloak"
	"keycloak-portal/internal/logger"
)

// httpStatus maps an error kind to its response status. Every auth
// error is unauthorized; only a pure provider transport failure is a
// server error.
func httpStatus(err error) int {
	if errors.Is(err, keycloak.ErrRequest) {
		return http.StatusInternalServerError
	}
	return http.StatusUnauthorized
}

// ErrorResponder turns errors attached by handlers into responses.
// Unauthorized states redirect the browser back to the Keycloak login
// page instead of surfacing an error body; nothing is overwritten if
// the handler already responded.
func ErrorResponder(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := httpStatus(err)

		logger.Error("request failed", map[string]any{
			"path":   c.Request.URL.Path,
			"status": status,
			"error":  err.Error(),
		})

		if status == http.StatusUnauthorized {
			c.Redirect(http.StatusFound, loginURL)
			return
		}

		c.JSON(status, gin.H{"detail": "keycloak request failed"})
	}
}
