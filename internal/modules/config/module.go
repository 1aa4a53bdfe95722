package config

import (
	"webhook_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module регистрирует конфиг как fx-провайдер и поднимает логгер.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *Config) error {
			if err := logger.Init(logger.Config{
				Level:       cfg.Log.Level,
				Development: cfg.Log.Development,
			}); err != nil {
				return err
			}
			logger.SetServiceName("webhook_bot")
			lc.Append(fx.StopHook(logger.Sync))
			return nil
		}),
	)
}
