package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apprental "github.com/xiebiao/dvdrental/internal/application/rental"
	"github.com/xiebiao/dvdrental/internal/infrastructure/config"
	"github.com/xiebiao/dvdrental/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/dvdrental/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/dvdrental/internal/interface/http/handler"
	"github.com/xiebiao/dvdrental/internal/interface/http/middleware"
	"github.com/xiebiao/dvdrental/internal/interface/http/server"
)

// provideNow matches the UTC clock gorm stamps rows with.
func provideNow() func() time.Time {
	return sqlstore.Now
}

func provideClock(now func() time.Time) apprental.Clock {
	return apprental.Clock(now)
}

// provideIdempotency leaves the store nil when Redis is off, so the
// middleware passes requests straight through.
func provideIdempotency(client *goredis.Client, cfg *config.Config) *middleware.IdempotencyMiddleware {
	if client == nil {
		return middleware.NewIdempotencyMiddleware(nil)
	}
	return middleware.NewIdempotencyMiddleware(redis.NewIdempotencyStore(client, cfg.Idempotency.TTL))
}

func provideHealth(db *gorm.DB, client *goredis.Client) *handler.HealthHandler {
	checks := []handler.Check{{
		Name: "database",
		Ping: func(ctx context.Context) error { return sqlstore.Ping(ctx, db) },
	}}
	if client != nil {
		checks = append(checks, handler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
	}
	return handler.NewHealthHandler(checks...)
}

func provideRouter(cfg *config.Config, h server.Handlers) *gin.Engine {
	return server.NewRouter(server.Options{
		Mode:         cfg.Server.Mode,
		AllowOrigins: cfg.CORS.AllowOrigins,
		Metrics:      cfg.Metrics.Enabled,
		MetricsPath:  cfg.Metrics.Path,
		Swagger:      cfg.Server.Mode != gin.ReleaseMode,
	}, h)
}
