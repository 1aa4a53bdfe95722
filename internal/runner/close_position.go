package runner

import (
	"context"
	"errors"
	"fmt"
	"webhook_bot/internal/models"
	bingx "webhook_bot/internal/modules/bingx_client/service"
	"webhook_bot/internal/notify"
	"webhook_bot/pkg/logger"
)

func (r *Runner) closePosition(ctx context.Context, ex Exchange, sig models.Signal) (*Outcome, error) {
	pos, err := r.positions.FindOpen(ctx, sig.Instrument, sig.Timeframe)
	if err != nil {
		return nil, reject(ErrStorage, sig, err)
	}
	if pos == nil {
		return nil, reject(ErrPositionNotFound, sig, nil)
	}

	price, err := ex.GetPrice(ctx, sig.Instrument)
	if err != nil {
		return nil, reject(exchangeKind(err), sig, err)
	}

	// в минус автоматом не продаём
	if price.LessThan(pos.AvgBuyPrice) {
		r.notifier.Sendf(ctx, "⚠️ SELL %s [%s] skipped: price %s is below entry %s",
			sig.Instrument, sig.Timeframe, price, pos.AvgBuyPrice)
		return nil, reject(ErrUnfavorableExitPrice, sig,
			fmt.Errorf("price %s < avg buy %s", price, pos.AvgBuyPrice))
	}

	// продаём ровно то, что купили
	fill, err := ex.PlaceOrder(ctx, bingx.OrderRequest{
		Instrument:   sig.Instrument,
		Side:         models.SideSell,
		Type:         models.OrderMarket,
		PositionSide: models.PositionLong,
		Quantity:     pos.Quantity,
	})
	if err != nil {
		if bingx.MayHaveExecuted(err) {
			r.reconciliationGap(ctx, sig, "", bingx.RawBody(err), err)
		}
		return nil, reject(exchangeKind(err), sig, err)
	}

	closed, err := r.positions.CloseExisting(ctx, pos.ID, fill.AvgPrice, r.now())
	if err != nil {
		r.reconciliationGap(ctx, sig, fill.OrderID, fill.Raw, err)
		if errors.Is(err, models.ErrNotFound) {
			return nil, reject(ErrPositionNotFound, sig, err)
		}
		return nil, reject(ErrStorage, sig, err)
	}

	logger.Info("position %d closed: %s avg sell=%s order=%s", closed.ID, sig, fill.AvgPrice, fill.OrderID)
	r.notifier.Send(ctx, notify.PositionClosed(closed))

	return &Outcome{Side: models.SideSell, Position: closed, OrderID: fill.OrderID}, nil
}
