package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UserRepo implements repository.UserRepository. A users row is the owner
// every term, lesson and notebook points at.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// IsAuthorized checks if user is authorized
func (r *UserRepo) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM users WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&authorized)

	if errors.Is(err, sql.ErrNoRows) {
		// User doesn't exist yet
		return false, nil
	}
	if err != nil {
		return false, mapError(err, fmt.Sprintf("user %d", userID))
	}

	return authorized, nil
}

// AuthorizeUser marks user as authorized, creating the row when missing
func (r *UserRepo) AuthorizeUser(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET authorized = TRUE
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return mapError(err, fmt.Sprintf("user %d", userID))
}

// EnsureUserExists registers the owner row; an existing row is left untouched
func (r *UserRepo) EnsureUserExists(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return mapError(err, fmt.Sprintf("user %d", userID))
}
