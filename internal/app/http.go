package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"keycloak-portal/internal/auth/handler"
	"keycloak-portal/internal/config"
	"keycloak-portal/internal/keycloak"
	"keycloak-portal/internal/middleware"
	"keycloak-portal/internal/token"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	// One client for every outbound Keycloak call. No timeout is set:
	// token lifetimes bound how long a request can matter, and the
	// original behaviour is to wait the provider out.
	httpClient := &http.Client{}

	keycloakClient := keycloak.New(cfg, httpClient)

	codec, err := token.New(cfg.PublicKey)
	if err != nil {
		return nil, nil, err
	}

	authHandler := handler.New(cfg, keycloakClient, codec, infra.DB)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog())
	router.Use(middleware.ErrorResponder(keycloakClient.LoginURL()))

	authHandler.RegisterRoutes(router, middleware.AdminGate(codec, keycloakClient))

	router.GET("/health", func(c *gin.Context) {
		if err := infra.DB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "app db unreachable"})
			return
		}
		if err := infra.KeycloakDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "keycloak db unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router, infra.Close, nil
}
