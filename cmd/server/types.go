package main

import (
	"context"

	"codeberg.org/kinship/server/api/rest/auth"
	"codeberg.org/kinship/server/api/rest/health"
	"codeberg.org/kinship/server/internal/config"
	"codeberg.org/kinship/server/internal/metrics"
	"codeberg.org/kinship/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	internalauth "codeberg.org/kinship/server/internal/auth"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *pgxpool.Pool // nil when the in-memory store is wired
	redis    *redis.Client // nil when rate limiting uses process memory
	config   *config.Config
	store    health.Pinger
	auth     auth.Service
	verifier *internalauth.TokenVerifier
	limiter  *ratelimit.Limiter
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	router   *gin.Engine
}

// adapts a redis client to health.Pinger
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
