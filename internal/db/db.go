package db

import "database/sql"

// DB wraps the application connection pool.
type DB struct {
	*sql.DB
}
