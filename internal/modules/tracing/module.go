package tracing

import (
	"webhook_bot/internal/modules/config"
	"webhook_bot/pkg/logger"
	"webhook_bot/pkg/tracing"

	"go.uber.org/fx"
)

// Module включает jaeger, если tracing.enabled. Иначе span-ы уходят в no-op трейсер.
func Module() fx.Option {
	return fx.Module("tracing",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if !cfg.Tracing.Enabled {
				return nil
			}
			tracing.SetServiceName("webhook_bot")
			_, closer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Tracing.Host,
				Port: cfg.Tracing.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.StopHook(closer))
			logger.Info("tracing: jaeger agent %s:%d", cfg.Tracing.Host, cfg.Tracing.Port)
			return nil
		}),
	)
}
