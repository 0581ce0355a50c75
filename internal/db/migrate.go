package db

import (
	"context"
	"database/sql"
)

const portalMigration = `
CREATE TABLE IF NOT EXISTS users (
    id text PRIMARY KEY,
    email text NOT NULL UNIQUE,
    email_verified boolean NOT NULL DEFAULT false,
    name text NOT NULL DEFAULT '',
    preferred_username text NOT NULL DEFAULT '',
    given_name text NOT NULL DEFAULT '',
    family_name text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);
`

// RunPortalMigration creates the local user projection. The id column
// is the Keycloak subject, so a racing first login hits the primary
// key instead of inserting twice.
func RunPortalMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, portalMigration)
	return err
}
