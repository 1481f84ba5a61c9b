package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMissing   = errors.New("auth: token missing")
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenSignature = errors.New("auth: token signature invalid")
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrTokenClaims    = errors.New("auth: token claims invalid")
)

var signingMethod = jwt.SigningMethodHS256

// secrets and lifetimes for the two token kinds
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// defaults to time.Now
	Now func() time.Time
}

func (c TokenConfig) validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return fmt.Errorf("auth: access and refresh secrets are required")
	}

	if c.AccessSecret == c.RefreshSecret {
		return fmt.Errorf("auth: access and refresh secrets must differ")
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("auth: token lifetimes must be positive")
	}

	return nil
}

func (c TokenConfig) clock() func() time.Time {
	if c.Now != nil {
		return c.Now
	}

	return time.Now
}

// mints signed access/refresh token pairs
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// creates a token issuer
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           cfg.clock(),
	}, nil
}

// signs a fresh access and refresh token for subject, each with its own nonce
func (i *TokenIssuer) Issue(subject Subject) (TokenPair, error) {
	now := i.now()

	access, err := sign(subject, now, i.accessTTL, i.accessSecret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign access token: %w", err)
	}

	refresh, err := sign(subject, now, i.refreshTTL, i.refreshSecret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func sign(subject Subject, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	claims := Claims{
		UserID: subject.ID,
		Email:  subject.Email,
		Nonce:  uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(signingMethod, claims).SignedString(secret)
}

// validates tokens minted by a TokenIssuer sharing the same config
type TokenVerifier struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

// creates a token verifier
func NewTokenVerifier(cfg TokenConfig) (*TokenVerifier, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &TokenVerifier{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		now:           cfg.clock(),
	}, nil
}

// returns the claims of a valid access token; claims are nil on any failure
func (v *TokenVerifier) VerifyAccess(token string) (*Claims, error) {
	return v.verify(token, v.accessSecret)
}

// returns the claims of a valid refresh token; claims are nil on any failure
func (v *TokenVerifier) VerifyRefresh(token string) (*Claims, error) {
	return v.verify(token, v.refreshSecret)
}

func (v *TokenVerifier) verify(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)

	if err != nil {
		return nil, classifyTokenError(err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenClaims
	}

	return claims, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenClaims, err)
	}
}
