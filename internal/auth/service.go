package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "codeberg.org/kinship/server/internal/errors"
	"codeberg.org/kinship/server/kinship/users"
	"github.com/google/uuid"
)

const (
	msgRegisterRequired   = "Email, password, and confirmPassword are required"
	msgInvalidEmail       = "Invalid email format"
	msgPasswordMismatch   = "Passwords do not match"
	msgFirstName          = "First name must be between 1 and 50 characters"
	msgLastName           = "Last name must be between 1 and 50 characters"
	msgEmailTaken         = "User with this email already exists"
	msgUsernameTaken      = "Username is already taken"
	msgLoginRequired      = "Email and password are required"
	msgInvalidCredentials = "Invalid email or password"
	msgRefreshRequired    = "Refresh token is required"
	msgInvalidRefresh     = "Invalid or expired refresh token"
	msgUserNotFound       = "User not found"
)

// compared against when the email is unknown so login timing does not reveal accounts
const dummyPassword = "kinship-timing-equalizer-0"

// the external user store the service depends on
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, userID string) (*users.User, error)
	Create(ctx context.Context, params users.CreateParams) (*users.User, error)
}

// orchestrates registration, login and token refresh
type Service struct {
	store     UserStore
	hasher    PasswordHasher
	issuer    *TokenIssuer
	verifier  *TokenVerifier
	now       func() time.Time
	dummyHash func() string
}

// creates an auth service
func NewService(store UserStore, hasher PasswordHasher, issuer *TokenIssuer, verifier *TokenVerifier) *Service {
	return &Service{
		store:    store,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		now:      time.Now,
		dummyHash: sync.OnceValue(func() string {
			hashed, err := hasher.Hash(dummyPassword)
			if err != nil {
				return ""
			}
			return hashed
		}),
	}
}

// validates the request and creates a new user; the returned view has no password hash
func (s *Service) Register(ctx context.Context, req RegistrationRequest) (*users.User, error) {
	email := SanitizeInput(req.Email)
	firstName := SanitizeInput(req.FirstName)
	lastName := SanitizeInput(req.LastName)

	if email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, apperrors.Validation(msgRegisterRequired)
	}

	if !ValidateEmail(email) {
		return nil, apperrors.Validation(msgInvalidEmail)
	}

	if !ValidatePasswordMatch(req.Password, req.ConfirmPassword) {
		return nil, apperrors.Validation(msgPasswordMismatch)
	}

	if check := ValidatePassword(req.Password); !check.Valid {
		return nil, apperrors.Validation(check.Message)
	}

	if req.FirstName != "" && !ValidateName(firstName) {
		return nil, apperrors.Validation(msgFirstName)
	}

	if req.LastName != "" && !ValidateName(lastName) {
		return nil, apperrors.Validation(msgLastName)
	}

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		return nil, apperrors.Internal("Failed to register user", err)
	}

	if existing != nil {
		return nil, apperrors.Conflict(msgEmailTaken)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to register user", err)
	}

	params := users.CreateParams{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     s.username(email),
		PasswordHash: hashed,
		FirstName:    firstName,
		LastName:     lastName,
	}

	user, err := s.store.Create(ctx, params)

	// same local part registered within the same millisecond
	if errors.Is(err, users.ErrDuplicateUsername) {
		params.Username = s.username(email) + "-" + uuid.NewString()[:8]
		user, err = s.store.Create(ctx, params)
	}

	if err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			return nil, apperrors.Conflict(msgEmailTaken)
		case errors.Is(err, users.ErrDuplicateUsername):
			return nil, apperrors.Conflict(msgUsernameTaken)
		}

		return nil, apperrors.Internal("Failed to register user", err)
	}

	return user.WithoutPassword(), nil
}

// checks credentials; unknown emails and wrong passwords fail identically
func (s *Service) Login(ctx context.Context, creds Credentials) (*users.User, error) {
	email := SanitizeInput(creds.Email)

	if email == "" || creds.Password == "" {
		return nil, apperrors.Validation(msgLoginRequired)
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			s.hasher.Verify(creds.Password, s.dummyHash())
			return nil, apperrors.Authentication(msgInvalidCredentials)
		}

		return nil, apperrors.Internal("Failed to log in", err)
	}

	if !s.hasher.Verify(creds.Password, user.PasswordHash) {
		return nil, apperrors.Authentication(msgInvalidCredentials)
	}

	return user.WithoutPassword(), nil
}

// mints a token pair for user
func (s *Service) GenerateTokens(user *users.User) (TokenPair, error) {
	if user == nil {
		return TokenPair{}, apperrors.Internal("Failed to generate tokens", fmt.Errorf("auth: nil user"))
	}

	pair, err := s.issuer.Issue(Subject{ID: user.ID, Email: user.Email})
	if err != nil {
		return TokenPair{}, apperrors.Internal("Failed to generate tokens", err)
	}

	return pair, nil
}

// exchanges a valid refresh token for a new pair, re-reading the user from the store.
// The presented refresh token stays valid until it expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, apperrors.Validation(msgRefreshRequired)
	}

	claims, err := s.verifier.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, &apperrors.Error{
			Kind:    apperrors.KindAuthentication,
			Message: msgInvalidRefresh,
			Err:     err,
		}
	}

	user, err := s.findByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}

	return s.GenerateTokens(user)
}

// re-fetches the principal's user record
func (s *Service) CurrentUser(ctx context.Context, principal Principal) (*users.User, error) {
	user, err := s.findByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	return user.WithoutPassword(), nil
}

func (s *Service) findByID(ctx context.Context, userID string) (*users.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, apperrors.NotFound(msgUserNotFound)
		}

		return nil, apperrors.Internal("Failed to load user", err)
	}

	return user, nil
}

// email local part followed by the registration time in unix milliseconds
func (s *Service) username(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return fmt.Sprintf("%s%d", local, s.now().UnixMilli())
}
