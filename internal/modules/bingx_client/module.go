package bingx_client

import (
	"webhook_bot/internal/modules/bingx_client/service"
	"webhook_bot/internal/modules/config"

	"go.uber.org/fx"
)

// Module поднимает клиентов BingX для live и demo контуров.
func Module() fx.Option {
	return fx.Module("bingx_client",
		fx.Provide(
			func(cfg *config.Config) (*service.Clients, error) {
				return service.NewClients(service.ClientsConfig{
					APIKey:      cfg.BingX.APIKey,
					SecretKey:   cfg.BingX.SecretKey,
					BaseURL:     cfg.BingX.BaseURL,
					BaseURLDemo: cfg.BingX.BaseURLDemo,
					Timeout:     cfg.BingX.Timeout,
				})
			},
		),
	)
}
