package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// creates a new user repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// inserts a new user; the caller supplies the id and the password hash
func (r *Repository) Create(ctx context.Context, params CreateParams) (*User, error) {
	user, err := scanUser(r.db.QueryRow(
		ctx,
		queryCreate,
		params.ID,
		params.Email,
		params.Username,
		params.PasswordHash,
		params.FirstName,
		params.LastName,
	))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_username_key" {
				return nil, ErrDuplicateUsername
			}

			return nil, ErrDuplicateEmail
		}

		return nil, fmt.Errorf("users: create user: %w", err)
	}

	return user, nil
}

// finds a user by email address
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, queryFindByEmail, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("users: find by email: %w", err)
	}

	return user, nil
}

// finds a user by their ID
func (r *Repository) FindByID(ctx context.Context, userID string) (*User, error) {
	// ids are UUIDs; anything else cannot match and would only make postgres complain
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNotFound
	}

	user, err := scanUser(r.db.QueryRow(ctx, queryFindByID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("users: find by id: %w", err)
	}

	return user, nil
}

// checks that the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanUser(row pgx.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsEmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}
