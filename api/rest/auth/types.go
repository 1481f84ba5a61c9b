package auth

import (
	"context"

	"codeberg.org/kinship/server/internal/auth"
	"codeberg.org/kinship/server/kinship/users"
)

// the auth operations the handlers call
type Service interface {
	Register(ctx context.Context, req auth.RegistrationRequest) (*users.User, error)
	Login(ctx context.Context, creds auth.Credentials) (*users.User, error)
	GenerateTokens(user *users.User) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	CurrentUser(ctx context.Context, principal auth.Principal) (*users.User, error)
}

// RegisterRequest is the registration body
type RegisterRequest struct {
	Email           string `json:"email" example:"alice@example.com"`
	Password        string `json:"password" example:"Abc123"`
	ConfirmPassword string `json:"confirmPassword" example:"Abc123"`
	FirstName       string `json:"firstName,omitempty" example:"Alice"`
	LastName        string `json:"lastName,omitempty" example:"Liddell"`
}

// LoginRequest is the login body
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"Abc123"`
}

// RefreshRequest carries the refresh token to exchange
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthData is returned by register and login
type AuthData struct {
	User         *users.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// UserData wraps the current user
type UserData struct {
	User *users.User `json:"user"`
}

// AuthResponse is the envelope for register and login
type AuthResponse struct {
	Success bool     `json:"success" example:"true"`
	Data    AuthData `json:"data"`
	Message string   `json:"message,omitempty"`
}

// TokenResponse is the envelope for refresh-token
type TokenResponse struct {
	Success bool           `json:"success" example:"true"`
	Data    auth.TokenPair `json:"data"`
	Message string         `json:"message,omitempty"`
}

// UserResponse is the envelope for the current user
type UserResponse struct {
	Success bool     `json:"success" example:"true"`
	Data    UserData `json:"data"`
}

// MessageResponse is the envelope for logout
type MessageResponse struct {
	Success bool     `json:"success" example:"true"`
	Data    struct{} `json:"data"`
	Message string   `json:"message"`
}
