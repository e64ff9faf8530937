package store

import (
	"context"
	"fmt"
	"net"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Open builds the backend selected by cfg.Store.Driver. The returned close
// function releases whatever connection or file handle the backend holds.
func Open(ctx context.Context, cfg *config.Config, migrationsDir string, logger *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case "", "memory":
		logger.Info("Using in-memory store")
		return NewMemory(), noop, nil

	case "badger":
		b, err := OpenBadger(cfg.Store.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using badger store", zap.String("path", cfg.Store.BadgerPath))
		return b, b.Close, nil

	case "postgres":
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database health check", zap.Any("health", database.Health(ctx, db)))
		if err := database.RunMigrations(ctx, db, migrationsDir, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		if current, target, err := database.SchemaVersion(ctx, db, migrationsDir); err == nil {
			logger.Info("Using postgres store", zap.Int64("schema_version", current), zap.Int64("latest", target))
		}
		return NewPostgres(db), db.Close, nil

	case "redis":
		client := NewRedisClient(cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info("Using redis store", zap.String("addr", client.Options().Addr))
		return NewRedis(client), client.Close, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Store.Driver)
}

// NewRedisClient creates a go-redis client from configuration
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
