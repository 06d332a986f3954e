// Package dedup filters repeated webhook deliveries. Providers retry on
// slow acks, so each message id is claimed once in Redis with a TTL.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/metrics"
)

// Config holds Redis connection settings for the dedup store.
type Config struct {
	Host     string `env:"REDIS_HOST" env-default:"localhost"`
	Port     int    `env:"REDIS_PORT" env-default:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
	TTL      int    `env:"DEDUP_TTL_SECONDS" env-default:"86400"`
}

// Deduper reports whether a message id has been seen before.
type Deduper interface {
	Seen(ctx context.Context, messageID string) bool
	Ping(ctx context.Context) error
	Close() error
}

type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger ectologger.Logger
}

// NewStore connects to Redis and verifies the connection.
func NewStore(cfg Config, logger ectologger.Logger) (*Store, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Infof("Connected to Redis at %s", addr)

	return &Store{
		rdb:    rdb,
		ttl:    time.Duration(cfg.TTL) * time.Second,
		logger: logger,
	}, nil
}

// Seen atomically claims the message id and reports whether it was already
// claimed. An empty id or a Redis failure reports false, so delivery fails
// open rather than dropping messages.
func (s *Store) Seen(ctx context.Context, messageID string) bool {
	if messageID == "" {
		return false
	}

	claimed, err := s.rdb.SetNX(ctx, "dedup:msg:"+messageID, 1, s.ttl).Result()
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("dedup check failed, allowing message through")
		return false
	}
	if !claimed {
		metrics.WebhookDuplicatesTotal.Inc()
		return true
	}
	return false
}

// Ping checks if Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Disabled is a pass-through store for deployments without Redis. Every
// delivery is treated as first-seen.
type Disabled struct{}

func (Disabled) Seen(ctx context.Context, messageID string) bool { return false }

func (Disabled) Ping(ctx context.Context) error { return nil }

func (Disabled) Close() error { return nil }
