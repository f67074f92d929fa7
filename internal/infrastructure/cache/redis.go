package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/config"
)

// RedisClient is the one Redis connection config shared by the view cache and the task queue.
type RedisClient struct {
	Client *redis.Client
	cfg    config.RedisConfig
}

func NewRedisClient(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			MaxRetries:   3,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		cfg: cfg,
	}
}

// AsynqOpt returns the same connection settings for asynq clients, servers and schedulers.
func AsynqOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func (r *RedisClient) Connect(ctx context.Context) error {
	log.Info().Str("addr", r.cfg.Addr).Int("db", r.cfg.DB).Msg("Connecting to Redis")

	if err := r.HealthCheck(ctx); err != nil {
		return err
	}

	log.Info().Str("addr", r.cfg.Addr).Msg("Redis connected")
	return nil
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s failed: %w", r.cfg.Addr, err)
	}
	return nil
}

// CountKeys counts keys under each prefix with SCAN. Used by catalogctl to report a flush.
func (r *RedisClient) CountKeys(ctx context.Context, prefixes ...string) (map[string]int, error) {
	counts := make(map[string]int, len(prefixes))
	for _, prefix := range prefixes {
		iter := r.Client.Scan(ctx, 0, prefix+"*", 200).Iterator()
		n := 0
		for iter.Next(ctx) {
			n++
		}
		if err := iter.Err(); err != nil {
			return nil, fmt.Errorf("redis scan %s*: %w", prefix, err)
		}
		counts[prefix] = n
	}
	return counts, nil
}

func (r *RedisClient) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
