package runner

import (
	"context"
	"errors"
	"fmt"
	"webhook_bot/internal/helper"
	"webhook_bot/internal/models"
	bingx "webhook_bot/internal/modules/bingx_client/service"
	lockersvc "webhook_bot/internal/modules/locker/service"
	"webhook_bot/pkg/logger"
	"webhook_bot/pkg/tracing"
)

// HandleSignal: проверка → настройки → лок по ключу → BUY/SELL.
// Любой отказ возвращается как *Rejection.
func (r *Runner) HandleSignal(ctx context.Context, sig models.Signal) (out *Outcome, err error) {
	span, ctx := tracing.StartSpan(ctx, "runner.HandleSignal")
	span.SetTag("signal.instrument", sig.Instrument)
	span.SetTag("signal.timeframe", sig.Timeframe)
	span.SetTag("signal.side", string(sig.Side))
	span.SetTag("signal.request_id", sig.RequestID)
	defer func() {
		observeSignal(sig.Side, err)
		tracing.FinishSpan(span, err)
	}()

	if err := sig.Validate(); err != nil {
		return nil, reject(ErrInvalidInput, sig, err)
	}
	ex, ok := r.exchanges[sig.Environment]
	if !ok {
		return nil, reject(ErrInvalidInput, sig, fmt.Errorf("no exchange for environment %q", sig.Environment))
	}

	// один снимок на весь вызов: настройка может поменяться посреди сделки
	settings, err := r.settings.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, models.ErrInvalidSettings) {
			return nil, reject(ErrInvalidSettings, sig, err)
		}
		return nil, reject(ErrStorage, sig, err)
	}
	if !settings.TradingEnabled {
		return nil, reject(ErrTradingDisabled, sig, nil)
	}

	unlock, err := r.locker.Acquire(ctx, helper.PositionKey(sig.Instrument, sig.Timeframe))
	if err != nil {
		if errors.Is(err, lockersvc.ErrLockTimeout) {
			return nil, reject(ErrBusy, sig, err)
		}
		return nil, reject(ErrStorage, sig, err)
	}
	defer unlock()

	logger.Info("signal %s: %s", sig.RequestID, sig)

	if sig.Side == models.SideBuy {
		out, err = r.openPosition(ctx, ex, sig, settings)
	} else {
		out, err = r.closePosition(ctx, ex, sig)
	}
	if err != nil {
		r.reportRejection(ctx, err)
		return nil, err
	}
	return out, nil
}

// exchangeKind раскладывает ошибку клиента биржи по нашей таксономии.
func exchangeKind(err error) error {
	if errors.Is(err, bingx.ErrMalformedResponse) {
		return ErrMalformedResponse
	}
	return ErrUpstream
}

// reportRejection: лог и уведомление для отказов, на которые оператору стоит посмотреть.
func (r *Runner) reportRejection(ctx context.Context, err error) {
	var rej *Rejection
	if !errors.As(err, &rej) {
		logger.Error("signal failed: %v", err)
		return
	}
	switch rej.Kind {
	case ErrUpstream, ErrMalformedResponse, ErrStorage:
		logger.Error("signal rejected: %v", rej)
		r.notifier.Sendf(ctx, "❗️ %s %s [%s] failed: %s", rej.Side, rej.Instrument, rej.Timeframe, rej.Reason)
	default:
		logger.Warn("signal rejected: %v", rej)
	}
}
