package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/dvdrental/internal/infrastructure/config"
	"github.com/xiebiao/dvdrental/pkg/logging"
)

// NewClient connects to Redis. It returns a nil client when Redis is
// disabled; callers treat nil as "feature off".
func NewClient(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		logging.L().Info().Msg("redis disabled, idempotency keys are not enforced")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr(), err)
	}

	logging.L().Info().Str("addr", cfg.Redis.Addr()).Msg("redis connected")
	cleanup := func() {
		if err := client.Close(); err != nil {
			logging.L().Warn().Err(err).Msg("close redis")
		}
	}
	return client, cleanup, nil
}
