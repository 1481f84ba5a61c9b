package config

import "time"

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	DatabaseURL string
	RedisURL    string
	BcryptCost  int
	JWT         JWTConfig
	RateLimit   string
	CORSOrigins []string
}

// signing secrets and lifetimes for access and refresh tokens
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// reports whether the process runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
