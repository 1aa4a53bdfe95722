package main

import (
	"context"
	"log"
	"webhook_bot/internal/modules/bingx_client"
	"webhook_bot/internal/modules/config"
	"webhook_bot/internal/modules/health"
	"webhook_bot/internal/modules/locker"
	"webhook_bot/internal/modules/postgres"
	"webhook_bot/internal/modules/storage"
	telegram "webhook_bot/internal/modules/telegram_bot"
	"webhook_bot/internal/modules/tracing"
	"webhook_bot/internal/modules/webhook"
	"webhook_bot/internal/runner"

	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		tracing.Module(),
		postgres.Module(),
		storage.Module(),
		locker.Module(),
		bingx_client.Module(),
		telegram.Module(),
		runner.Module(),
		health.Module(),
		webhook.Module(),
	)
	if err := app.Err(); err != nil {
		log.Fatal(err)
	}
	app.Run()
}
