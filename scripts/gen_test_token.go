package main

import (
	"context"
	"fmt"
	"log"

	"codeberg.org/kinship/server/internal/auth"
	"codeberg.org/kinship/server/internal/config"
	apperrors "codeberg.org/kinship/server/internal/errors"
	"codeberg.org/kinship/server/kinship/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	testEmail    = "test@kinship.dev"
	testPassword = "TestUser123"
)

// prints a token pair for a local test account, registering it on first use
func main() {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()

	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := users.Migrate(ctx, dbPool); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	tokenConfig := auth.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	}

	issuer, err := auth.NewTokenIssuer(tokenConfig)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}

	verifier, err := auth.NewTokenVerifier(tokenConfig)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}

	svc := auth.NewService(users.NewRepository(dbPool), auth.NewBcryptHasher(cfg.BcryptCost), issuer, verifier)

	user, err := svc.Register(ctx, auth.RegistrationRequest{
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       "Test",
		LastName:        "User",
	})

	switch {
	case err == nil:
		fmt.Printf("Created test user: %s (ID: %s)\n", testEmail, user.ID)
	case apperrors.KindOf(err) == apperrors.KindConflict:
		user, err = svc.Login(ctx, auth.Credentials{Email: testEmail, Password: testPassword})
		if err != nil {
			log.Fatalf("Failed to log in as existing test user: %v", err)
		}
		fmt.Printf("Using existing test user (ID: %s)\n", user.ID)
	default:
		log.Fatalf("Failed to create test user: %v", err)
	}

	pair, err := svc.GenerateTokens(user)
	if err != nil {
		log.Fatalf("Failed to generate tokens: %v", err)
	}

	fmt.Printf("\nAccess token:\n%s\n\nRefresh token:\n%s\n\n", pair.AccessToken, pair.RefreshToken)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s\"\n", pair.AccessToken)
}
