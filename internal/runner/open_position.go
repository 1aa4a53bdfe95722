package runner

import (
	"context"
	"errors"
	"fmt"
	"webhook_bot/internal/models"
	bingx "webhook_bot/internal/modules/bingx_client/service"
	"webhook_bot/internal/notify"
	"webhook_bot/pkg/logger"

	"go.uber.org/zap"
)

func (r *Runner) openPosition(ctx context.Context, ex Exchange, sig models.Signal, settings models.TradingSettings) (*Outcome, error) {
	existing, err := r.positions.FindOpen(ctx, sig.Instrument, sig.Timeframe)
	if err != nil {
		return nil, reject(ErrStorage, sig, err)
	}
	if existing != nil {
		return nil, reject(ErrPositionAlreadyOpen, sig, fmt.Errorf("position id=%d", existing.ID))
	}

	price, err := ex.GetPrice(ctx, sig.Instrument)
	if err != nil {
		return nil, reject(exchangeKind(err), sig, err)
	}

	qty := settings.PositionUSDT.Div(price).Truncate(quantityScale)
	if !qty.IsPositive() {
		return nil, reject(ErrInvalidSettings, sig,
			fmt.Errorf("position_usdt=%s at price %s gives zero quantity", settings.PositionUSDT, price))
	}

	fill, err := ex.PlaceOrder(ctx, bingx.OrderRequest{
		Instrument:   sig.Instrument,
		Side:         models.SideBuy,
		Type:         models.OrderMarket,
		PositionSide: models.PositionLong,
		Quantity:     qty,
	})
	if err != nil {
		// таймаут, 5xx или битый ответ: ордер мог исполниться, оставляем след для сверки
		if bingx.MayHaveExecuted(err) {
			r.reconciliationGap(ctx, sig, "", bingx.RawBody(err), err)
		}
		return nil, reject(exchangeKind(err), sig, err)
	}

	// в позицию пишем фактическое исполнение, а не запрошенный объём
	created, err := r.positions.Create(ctx, &models.Position{
		Instrument:     sig.Instrument,
		Timeframe:      sig.Timeframe,
		Quantity:       fill.ExecutedQty,
		NotionalAtOpen: fill.AvgPrice.Mul(fill.ExecutedQty),
		AvgBuyPrice:    fill.AvgPrice,
		CreatedAt:      r.now(),
	})
	if err != nil {
		r.reconciliationGap(ctx, sig, fill.OrderID, fill.Raw, err)
		if errors.Is(err, models.ErrConflict) {
			return nil, reject(ErrPositionAlreadyOpen, sig, err)
		}
		return nil, reject(ErrStorage, sig, err)
	}

	logger.Info("position %d opened: %s qty=%s avg=%s order=%s",
		created.ID, sig, created.Quantity, created.AvgBuyPrice, fill.OrderID)
	r.notifier.Send(ctx, notify.PositionOpened(created))

	return &Outcome{Side: models.SideBuy, Position: created, OrderID: fill.OrderID}, nil
}

// reconciliationGap: на бирже сделка есть, а в store её нет (или наоборот).
// Автоматически не чиним, только громко сообщаем.
func (r *Runner) reconciliationGap(ctx context.Context, sig models.Signal, orderID, raw string, cause error) {
	logger.Errorw("reconciliation gap",
		zap.String("request_id", sig.RequestID),
		zap.String("instrument", sig.Instrument),
		zap.String("timeframe", sig.Timeframe),
		zap.String("side", string(sig.Side)),
		zap.String("environment", string(sig.Environment)),
		zap.Time("at", r.now()),
		zap.String("order_id", orderID),
		zap.String("raw_response", raw),
		zap.Error(cause),
	)
	r.notifier.Sendf(ctx, "🚨 Reconciliation needed: %s order=%s: %v", sig, orderID, cause)
}
