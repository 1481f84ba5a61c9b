package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// represents JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	// makes tokens minted in the same second distinct; never checked
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// the identity a token pair is minted for
type Subject struct {
	ID    string
	Email string
}

// signed access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// the identity attached to a request after token verification
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// login input; never persisted
type Credentials struct {
	Email    string
	Password string
}

// registration input; ConfirmPassword is discarded after validation
type RegistrationRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}
