package store

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"
)

// Open crea el backend elegido por STORAGE_DRIVER
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.DriverFile, "":
		return NewFileStore(cfg.DataDir)
	case config.DriverMongo:
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(client, cfg.MongoDB), nil
	case config.DriverRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.DriverBadger:
		return OpenBadger(cfg.BadgerDir)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.StorageDriver)
	}
}
