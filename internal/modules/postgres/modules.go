package postgres

import (
	"context"
	"fmt"
	"webhook_bot/internal/modules/config"
	"webhook_bot/pkg/db"
	"webhook_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module поднимает пул PostgreSQL. Без db_dsn отдаёт nil:
// хранилище тогда работает в памяти.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					logger.Warn("db_dsn is empty, positions will not survive restart")
					return nil, nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN:      cfg.DB,
					MaxConns: cfg.DBConns,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					poolMaster.Close()
					return nil, err
				}

				tx := db.NewPgTxManager(poolMaster)
				lc.Append(fx.StopHook(tx.Close))
				return tx, nil
			},
		),
	)
}
