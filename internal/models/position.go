package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrConflict: открытая позиция по ключу уже есть (проиграли гонку).
	ErrConflict = errors.New("open position already exists")
	// ErrNotFound: позиции нет или она уже закрыта.
	ErrNotFound = errors.New("position not found")
)

var hundred = decimal.NewFromInt(100)

// Position: одна позиция по паре (instrument, timeframe).
// Открыта, пока ClosedAt == nil.
type Position struct {
	ID             int64
	Instrument     string
	Timeframe      string
	Quantity       decimal.Decimal // базовый актив
	NotionalAtOpen decimal.Decimal // USDT на входе
	AvgBuyPrice    decimal.Decimal
	AvgSellPrice   decimal.NullDecimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ClosedAt       *time.Time
}

func (p *Position) IsOpen() bool { return p.ClosedAt == nil }

// Profit = (sell - buy) * qty, только для закрытой позиции.
func (p *Position) Profit() (decimal.Decimal, bool) {
	if p.IsOpen() || !p.AvgSellPrice.Valid {
		return decimal.Zero, false
	}
	return p.AvgSellPrice.Decimal.Sub(p.AvgBuyPrice).Mul(p.Quantity), true
}

// ProfitRate в процентах от цены входа.
func (p *Position) ProfitRate() (decimal.Decimal, bool) {
	if p.IsOpen() || !p.AvgSellPrice.Valid || p.AvgBuyPrice.IsZero() {
		return decimal.Zero, false
	}
	return p.AvgSellPrice.Decimal.Sub(p.AvgBuyPrice).Div(p.AvgBuyPrice).Mul(hundred), true
}

// HoldDuration: сколько позиция была открыта.
func (p *Position) HoldDuration() (time.Duration, bool) {
	if p.ClosedAt == nil {
		return 0, false
	}
	return p.ClosedAt.Sub(p.CreatedAt), true
}
