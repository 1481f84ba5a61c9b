package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPort          = "8080"
	defaultEnvironment   = "development"
	defaultAccessExpiry  = "15m"
	defaultRefreshExpiry = "7d"
	defaultBcryptCost    = 12
	defaultRateLimit     = "20-M"
	defaultCORSOrigins   = "http://localhost:3000"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	return FromEnv()
}

// builds a Config from the current process environment
func FromEnv() (*Config, error) {
	environment := getenv("ENVIRONMENT", defaultEnvironment)
	databaseURL := os.Getenv("DATABASE_URL")
	accessSecret := os.Getenv("JWT_SECRET")
	refreshSecret := os.Getenv("JWT_REFRESH_SECRET")

	if accessSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if refreshSecret == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET environment variable is required")
	}

	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}

	if environment == "production" && databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required in production")
	}

	accessTTL, err := ParseExpiry(getenv("JWT_EXPIRES_IN", defaultAccessExpiry))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}

	refreshTTL, err := ParseExpiry(getenv("JWT_REFRESH_EXPIRES_IN", defaultRefreshExpiry))
	if err != nil {
		return nil, fmt.Errorf("JWT_REFRESH_EXPIRES_IN: %w", err)
	}

	cost := defaultBcryptCost
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		cost, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("BCRYPT_COST: %w", err)
		}

		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
		}
	}

	return &Config{
		Port:        getenv("PORT", defaultPort),
		Environment: environment,
		LogLevel:    os.Getenv("LOG_LEVEL"),
		DatabaseURL: databaseURL,
		RedisURL:    os.Getenv("REDIS_URL"),
		BcryptCost:  cost,
		JWT: JWTConfig{
			AccessSecret:  accessSecret,
			RefreshSecret: refreshSecret,
			AccessTTL:     accessTTL,
			RefreshTTL:    refreshTTL,
		},
		RateLimit:   getenv("AUTH_RATE_LIMIT", defaultRateLimit),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", defaultCORSOrigins)),
	}, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return fallback
}

func splitList(raw string) []string {
	var out []string

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
