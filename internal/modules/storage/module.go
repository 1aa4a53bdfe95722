package storage

import (
	"context"
	"webhook_bot/internal/modules/config"
	"webhook_bot/internal/modules/storage/service"
	"webhook_bot/internal/modules/storage/service/memory"
	"webhook_bot/internal/modules/storage/service/pg"
	"webhook_bot/pkg/db"
	"webhook_bot/pkg/logger"

	"go.uber.org/fx"
)

type Stores struct {
	fx.Out

	Positions service.PositionStore
	Settings  service.SettingsStore
	Info      *service.Info
}

func NewStores(lc fx.Lifecycle, cfg *config.Config, tx *db.PgTxManager) (Stores, error) {
	def, err := cfg.DefaultPositionUSDT()
	if err != nil {
		return Stores{}, err
	}

	if tx == nil {
		logger.Warn("storage: using in-memory store")
		return Stores{
			Positions: memory.NewPositions(),
			Settings:  memory.NewSettings(def),
			Info:      service.NewInfo(service.KindMemory, nil),
		}, nil
	}

	lc.Append(fx.StartHook(func(ctx context.Context) error {
		return pg.Migrate(ctx, tx)
	}))
	logger.Info("storage: using postgres")
	return Stores{
		Positions: pg.NewPositions(tx),
		Settings:  pg.NewSettings(tx, def),
		Info:      service.NewInfo(service.KindPostgres, tx.Ping),
	}, nil
}

func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(NewStores),
	)
}
