package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrNotFound signals that no user matches the lookup.
	ErrNotFound = errors.New("users: user not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("users: email already exists")
	// ErrDuplicateUsername signals that the generated username is taken.
	ErrDuplicateUsername = errors.New("users: username already exists")
)

// the subset of *pgxpool.Pool the repository needs
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// handles user database operations
type Repository struct {
	db DB
}

// represents a registered user (the durable identity record)
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// returns a copy of the user with the password hash cleared
func (u *User) WithoutPassword() *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.PasswordHash = ""

	return &clone
}

// contains data for creating a user
type CreateParams struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
}
