package notify

import (
	"context"
	"fmt"
	"webhook_bot/pkg/logger"
)

// Notifier: best-effort уведомления оператору. Ошибка доставки не
// должна влиять на обработку сигнала, поэтому только bool.
type Notifier interface {
	Send(ctx context.Context, msg string) bool
	Sendf(ctx context.Context, format string, args ...any) bool
}

// Stdout: уведомления в лог, когда Telegram не настроен.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Send(_ context.Context, msg string) bool {
	logger.Info("notify: %s", msg)
	return true
}

func (s *Stdout) Sendf(ctx context.Context, format string, args ...any) bool {
	return s.Send(ctx, fmt.Sprintf(format, args...))
}
