package runner

import (
	"context"
	"time"
	"webhook_bot/internal/models"
	bingx "webhook_bot/internal/modules/bingx_client/service"
	"webhook_bot/internal/notify"

	"github.com/shopspring/decimal"
)

// quantityScale: знаков после запятой в запрошенном объёме.
// Отбрасываем, а не округляем: вход не должен превышать notional.
const quantityScale = 8

type Exchange interface {
	GetPrice(ctx context.Context, instrument string) (decimal.Decimal, error)
	PlaceOrder(ctx context.Context, r bingx.OrderRequest) (*bingx.OrderResult, error)
}

type PositionStore interface {
	FindOpen(ctx context.Context, instrument, timeframe string) (*models.Position, error)
	Create(ctx context.Context, p *models.Position) (*models.Position, error)
	CloseExisting(ctx context.Context, id int64, avgSellPrice decimal.Decimal, closedAt time.Time) (*models.Position, error)
}

type SettingsStore interface {
	Snapshot(ctx context.Context) (models.TradingSettings, error)
}

type Locker interface {
	Acquire(ctx context.Context, key string) (unlock func(), err error)
}

// Outcome: результат успешной обработки сигнала.
type Outcome struct {
	Side     models.Side
	Position *models.Position
	OrderID  string
}

// Runner проводит один сигнал через проверки, биржу и хранилище.
// Состояния между вызовами не держит: всё живёт в store.
type Runner struct {
	exchanges map[models.Environment]Exchange
	positions PositionStore
	settings  SettingsStore
	notifier  notify.Notifier
	locker    Locker
	now       func() time.Time
}

func New(
	exchanges map[models.Environment]Exchange,
	positions PositionStore,
	settings SettingsStore,
	notifier notify.Notifier,
	locker Locker,
	now func() time.Time,
) *Runner {
	if now == nil {
		now = time.Now
	}
	return &Runner{
		exchanges: exchanges,
		positions: positions,
		settings:  settings,
		notifier:  notifier,
		locker:    locker,
		now:       now,
	}
}
