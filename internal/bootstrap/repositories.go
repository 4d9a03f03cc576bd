package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/luckydraw/internal/config"
	"github.com/osse101/luckydraw/internal/database"
	"github.com/osse101/luckydraw/internal/database/memory"
	"github.com/osse101/luckydraw/internal/database/postgres"
	"github.com/osse101/luckydraw/internal/handler"
	"github.com/osse101/luckydraw/internal/repository"
)

// Repositories holds the storage implementations selected by STORE_DRIVER
type Repositories struct {
	Spin  repository.Spin
	Admin repository.EventAdmin
	// Health answers readiness pings
	Health handler.Pinger
	close  func()
}

// Close releases the underlying connection pool, if any
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// InitializeRepositories connects to the configured store. PostgreSQL
// schemas are migrated before use.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn(LogMsgUsingMemoryStore)
		store := memory.NewStore()
		return &Repositories{
			Spin:   store,
			Admin:  store,
			Health: handler.PingFunc(func(context.Context) error { return nil }),
		}, nil

	case config.StoreDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgMigrationsApplied)
		slog.Info(LogMsgUsingPostgresStore, "host", cfg.DBHost, "db", cfg.DBName)

		repo := postgres.NewSpinRepository(pool)
		return &Repositories{
			Spin:   repo,
			Admin:  repo,
			Health: pool,
			close:  pool.Close,
		}, nil
	}

	return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreDriver, cfg.StoreDriver)
}
