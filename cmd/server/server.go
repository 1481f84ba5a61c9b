package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/kinship/server/internal/auth"
	"codeberg.org/kinship/server/internal/config"
	"codeberg.org/kinship/server/internal/logger"
	"codeberg.org/kinship/server/internal/metrics"
	"codeberg.org/kinship/server/internal/ratelimit"
	"codeberg.org/kinship/server/kinship/users"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const startupTimeout = 30 * time.Second

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	server := &Server{config: cfg}

	store, err := server.openUserStore(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.RedisURL != "" {
		server.redis, err = ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			server.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	server.limiter, err = ratelimit.New(ratelimit.Config{Rate: cfg.RateLimit}, server.redis)
	if err != nil {
		server.Close()
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	tokenConfig := auth.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	}

	issuer, err := auth.NewTokenIssuer(tokenConfig)
	if err != nil {
		server.Close()
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	server.verifier, err = auth.NewTokenVerifier(tokenConfig)
	if err != nil {
		server.Close()
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}

	server.store = store
	server.auth = auth.NewService(store, auth.NewBcryptHasher(cfg.BcryptCost), issuer, server.verifier)

	// dedicated registry to avoid polluting the global one
	server.registry = prometheus.NewRegistry()
	server.registry.MustRegister(collectors.NewGoCollector())
	server.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	server.metrics = metrics.NewMetrics(server.registry)

	logger.Info("auth initialized",
		"access_ttl", cfg.JWT.AccessTTL.String(),
		"refresh_ttl", cfg.JWT.RefreshTTL.String(),
		"bcrypt_cost", cfg.BcryptCost,
		"rate_limit", cfg.RateLimit,
		"rate_limit_backend", server.limiter.Backend(),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server.router = gin.New()
	RegisterRoutes(server.router, server)

	return server, nil
}

// the user store the auth service reads and writes
type userStore interface {
	auth.UserStore
	Ping(ctx context.Context) error
}

// connects to postgres and applies migrations, or falls back to memory outside production
func (s *Server) openUserStore(ctx context.Context) (userStore, error) {
	if s.config.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory user store; accounts are lost on restart")
		return users.NewMemoryStore(), nil
	}

	poolConfig, err := pgxpool.ParseConfig(s.config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := users.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.db = db

	return users.NewRepository(db), nil
}

// releases external connections
func (s *Server) Close() {
	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	if s.db != nil {
		s.db.Close()
	}
}
