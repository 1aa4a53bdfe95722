package telegram

import (
	"context"
	bingx "webhook_bot/internal/modules/bingx_client/service"
	"webhook_bot/internal/modules/config"
	storage "webhook_bot/internal/modules/storage/service"
	"webhook_bot/internal/notify"
	"webhook_bot/pkg/logger"

	"go.uber.org/fx"
)

// NewNotifier: Telegram, если заданы токен и чат, иначе уведомления уходят в лог.
// Не поднявшийся бот не роняет сервис: сделки важнее уведомлений.
func NewNotifier(
	lc fx.Lifecycle,
	cfg *config.Config,
	positions storage.PositionStore,
	settings storage.SettingsStore,
	exchange *bingx.Clients,
) notify.Notifier {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		logger.Warn("telegram: token or chat_id not configured, notifications go to log")
		return notify.NewStdout()
	}

	t, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, positions, settings, exchange)
	if err != nil {
		logger.Error("telegram: %v, notifications go to log", err)
		return notify.NewStdout()
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// ctx старта живёт только до конца OnStart
			return t.Start(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			t.Stop()
			return nil
		},
	})
	return t
}

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(NewNotifier),
	)
}
