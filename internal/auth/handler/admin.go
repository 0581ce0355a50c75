package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"keycloak-portal/internal/logger"
	"keycloak-portal/internal/user"
)

// AdminListUsers returns every local user record. The admin view is
// read-only; there is no create, edit or delete path for this entity.
func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := user.NewStore(h.db).List(c.Request.Context())
	if err != nil {
		logger.Error("admin user listing failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list users"})
		return
	}
	if users == nil {
		users = []user.User{}
	}
	c.JSON(http.StatusOK, users)
}

// AdminGetUser returns one local user record by subject id.
func (h *Handler) AdminGetUser(c *gin.Context) {
	u, err := user.NewStore(h.db).GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "user not found"})
		return
	}
	if err != nil {
		logger.Error("admin user lookup failed", map[string]any{
			"user_id": c.Param("id"),
			"error":   err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, u)
}
