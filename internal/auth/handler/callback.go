package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"keycloak-portal/internal/auth"
	"keycloak-portal/internal/logger"
	"keycloak-portal/internal/session"
	"keycloak-portal/internal/user"
)

// LoginCallback completes the OIDC flow: exchanges the code, decodes
// the token, upserts the local user, sets the bearer cookie and
// redirects to the protected page. All database work happens in one
// transaction that commits only on success. Clients only ever see
// ErrNoCode, ErrNoAccessToken, ErrUserIDMissing or ErrAuth; causes
// stay in the log.
func (h *Handler) LoginCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		logger.Error("keycloak reported an error", map[string]any{
			"error":       errParam,
			"description": c.Query("error_description"),
		})
		c.Error(auth.ErrNoCode)
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("callback without authorization code", nil)
		c.Error(auth.ErrNoCode)
		return
	}

	ctx := c.Request.Context()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("begin transaction failed", map[string]any{
			"error": err.Error(),
		})
		c.Error(auth.ErrAuth)
		return
	}

	accessToken, err := h.completeLogin(ctx, tx, code)
	if err != nil {
		_ = tx.Rollback()
		c.Error(err)
		return
	}

	if err := tx.Commit(); err != nil {
		logger.Error("commit failed", map[string]any{
			"error": err.Error(),
		})
		c.Error(auth.ErrAuth)
		return
	}

	session.SetCookie(c.Writer, accessToken, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Redirect(http.StatusFound, "/protected")
}

// completeLogin runs the exchange-decode-upsert chain inside the
// transaction and returns the raw access token for the cookie.
func (h *Handler) completeLogin(ctx context.Context, tx *sql.Tx, code string) (string, error) {
	tokens, err := h.keycloak.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("code exchange failed", map[string]any{
			"error": err.Error(),
		})
		return "", auth.ErrAuth
	}

	if tokens.AccessToken == "" {
		logger.Error("token response without access token", nil)
		return "", auth.ErrNoAccessToken
	}

	claims, err := h.codec.Decode(ctx, tokens.AccessToken)
	if err != nil {
		logger.Error("access token failed verification", map[string]any{
			"error": err.Error(),
		})
		return "", auth.ErrAuth
	}

	if claims.Subject == "" {
		logger.Error("access token without subject", nil)
		return "", auth.ErrUserIDMissing
	}

	store := user.NewStore(tx)

	_, err = store.GetByID(ctx, claims.Subject)
	switch {
	case errors.Is(err, user.ErrNotFound):
		if err := store.Insert(ctx, auth.UserFromClaims(claims)); err != nil {
			logger.Error("user insert failed", map[string]any{
				"user_id": claims.Subject,
				"error":   err.Error(),
			})
			return "", auth.ErrAuth
		}
		logger.Info("created user", map[string]any{
			"user_id": claims.Subject,
		})
	case err != nil:
		logger.Error("user lookup failed", map[string]any{
			"user_id": claims.Subject,
			"error":   err.Error(),
		})
		return "", auth.ErrAuth
	}

	logger.Info("user logged in", map[string]any{
		"user_id": claims.Subject,
	})
	return tokens.AccessToken, nil
}
