package service

import (
	"context"
	"time"
	"webhook_bot/internal/models"

	"github.com/shopspring/decimal"
)

// PositionStore: хранилище позиций. Открытая позиция на
// (instrument, timeframe) всегда одна, гонку решает сам store.
type PositionStore interface {
	// FindOpen возвращает nil, nil, если открытой позиции нет.
	FindOpen(ctx context.Context, instrument, timeframe string) (*models.Position, error)
	// Create возвращает models.ErrConflict, если открытая позиция уже есть.
	Create(ctx context.Context, p *models.Position) (*models.Position, error)
	// CloseExisting возвращает models.ErrNotFound, если позиции нет или она закрыта.
	CloseExisting(ctx context.Context, id int64, avgSellPrice decimal.Decimal, closedAt time.Time) (*models.Position, error)
	ListOpen(ctx context.Context) ([]*models.Position, error)
}

type SettingsStore interface {
	Snapshot(ctx context.Context) (models.TradingSettings, error)
	Set(ctx context.Context, key, value string) error
}
