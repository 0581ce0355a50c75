package app

import (
	"context"
	"database/sql"

	"keycloak-portal/internal/config"
	"keycloak-portal/internal/db"
	"keycloak-portal/internal/logger"

	_ "github.com/lib/pq"
)

type Infra struct {
	// DB holds the application's own data.
	DB *db.DB

	// KeycloakDB points at the identity provider's backing store. It
	// is provisioned and health-checked, but no portal logic reads it.
	KeycloakDB *db.DB
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	appDB, err := openPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := db.RunPortalMigration(ctx, appDB); err != nil {
		return nil, err
	}

	logger.Info("application database ready", nil)

	keycloakDB, err := openPool(ctx, cfg.KeycloakDatabaseDSN)
	if err != nil {
		return nil, err
	}

	logger.Info("keycloak database ready", nil)

	return &Infra{
		DB:         &db.DB{DB: appDB},
		KeycloakDB: &db.DB{DB: keycloakDB},
	}, nil
}

func (i *Infra) Close() error {
	if err := i.DB.Close(); err != nil {
		return err
	}
	return i.KeycloakDB.Close()
}

func openPool(ctx context.Context, dsn string) (*sql.DB, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.PingContext(ctx); err != nil {
		return nil, err
	}
	return pool, nil
}
