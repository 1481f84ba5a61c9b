// Package ratelimit throttles the credential endpoints per client IP.
package ratelimit

import (
	"context"
	"fmt"

	apperrors "codeberg.org/kinship/server/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "kinship:ratelimit"

// Config selects the rate and key prefix; Rate uses the "<limit>-<period>" format, e.g. "20-M".
type Config struct {
	Rate   string
	Prefix string
}

// wraps a ulule limiter instance
type Limiter struct {
	instance *limiter.Limiter
	backend  string
}

// creates a limiter backed by redis when client is non-nil, otherwise by process memory
func New(cfg Config, client *redis.Client) (*Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse rate %q: %w", cfg.Rate, err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = keyPrefix
	}

	var (
		store   limiter.Store
		backend = "memory"
	)

	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
		if err != nil {
			return nil, fmt.Errorf("ratelimit: create redis store: %w", err)
		}
		backend = "redis"
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	}

	return &Limiter{
		instance: limiter.New(store, rate),
		backend:  backend,
	}, nil
}

// memory or redis
func (l *Limiter) Backend() string {
	return l.backend
}

// gin middleware answering 429 once a client exceeds the rate
func (l *Limiter) Middleware() gin.HandlerFunc {
	return mgin.NewMiddleware(l.instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			apperrors.TooManyRequests(c, "Too many authentication attempts, please try again later")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			apperrors.InternalError(c, "Rate limiter unavailable", err)
		}),
	)
}

// connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // connection already failed
		return nil, fmt.Errorf("ratelimit: ping redis: %w", err)
	}

	return client, nil
}
