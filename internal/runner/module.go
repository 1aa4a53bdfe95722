package runner

import (
	"webhook_bot/internal/models"
	bingx "webhook_bot/internal/modules/bingx_client/service"
	locker "webhook_bot/internal/modules/locker/service"
	storage "webhook_bot/internal/modules/storage/service"
	"webhook_bot/internal/notify"

	"go.uber.org/fx"
)

func NewFromDeps(
	clients *bingx.Clients,
	positions storage.PositionStore,
	settings storage.SettingsStore,
	notifier notify.Notifier,
	lk locker.Locker,
) *Runner {
	exchanges := make(map[models.Environment]Exchange)
	for env, c := range clients.All() {
		exchanges[env] = c
	}
	return New(exchanges, positions, settings, notifier, lk, nil)
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewFromDeps, // *Runner
		),
	)
}
