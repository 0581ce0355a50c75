package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no user exists for the given id.
var ErrNotFound = errors.New("user not found")

// DBTX is satisfied by *sql.DB and *sql.Tx, so store calls compose
// into the callback transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store reads and writes local user records.
type Store struct {
	db DBTX
}

func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

// GetByID looks a user up by subject id.
func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, email_verified, name, preferred_username, given_name, family_name
		FROM users WHERE id = $1`

	u := &User{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.EmailVerified, &u.Name,
		&u.PreferredUsername, &u.GivenName, &u.FamilyName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// Insert stores a first-seen user. A concurrent insert for the same
// subject is the idempotent-success case, not an error.
func (s *Store) Insert(ctx context.Context, u User) error {
	query := `
		INSERT INTO users (id, email, email_verified, name, preferred_username, given_name, family_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.EmailVerified, u.Name,
		u.PreferredUsername, u.GivenName, u.FamilyName,
	); err != nil {
		return fmt.Errorf("insert user %s: %w", u.ID, err)
	}
	return nil
}

// List returns all local users, newest first. Backs the read-only
// admin view.
func (s *Store) List(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, email, email_verified, name, preferred_username, given_name, family_name
		FROM users ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.EmailVerified, &u.Name,
			&u.PreferredUsername, &u.GivenName, &u.FamilyName,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
