// Package sqlstore is the persistence gateway: a pooled gorm handle, a
// context-scoped transaction manager and the repositories built on them.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/xiebiao/dvdrental/internal/infrastructure/config"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
	"github.com/xiebiao/dvdrental/pkg/logging"
)

// NewDB opens the pool, pings the store and optionally installs the storage
// guards. The returned cleanup closes the pool.
func NewDB(cfg *config.Config) (*gorm.DB, func(), error) {
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 NewGormLogger(cfg.Server.Mode == "debug", cfg.Database.SlowThreshold),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                Now,
	})
	if err != nil {
		return nil, nil, apperrors.Connection(err, "open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			logging.L().Error().Err(err).Msg("close database")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		cleanup()
		return nil, nil, apperrors.Connection(err, "ping database")
	}

	log := logging.WithComponent("sqlstore")
	log.Info().Str("driver", cfg.Database.Driver).Str("host", cfg.Database.Host).
		Str("dbname", cfg.Database.DBName).Msg("database connected")

	if cfg.Database.EnsureGuards {
		guardCtx, cancelGuards := context.WithTimeout(context.Background(), time.Minute)
		defer cancelGuards()
		EnsureGuards(guardCtx, db)
	}
	return db, cleanup, nil
}

// Now is the clock for every stored timestamp. The columns carry no zone,
// so writes and reads must agree on UTC.
func Now() time.Time {
	return time.Now().UTC()
}

func openDialector(d config.DatabaseConfig) (gorm.Dialector, error) {
	switch d.Driver {
	case config.DriverPostgres:
		return postgres.Open(d.DSN()), nil
	case config.DriverMySQL:
		return mysql.Open(d.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}

// Ping reports whether the store is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.Connection(err, "database unreachable")
	}
	return nil
}
