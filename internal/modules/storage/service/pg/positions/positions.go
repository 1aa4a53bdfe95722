package positions

import (
	"context"
	"errors"
	"fmt"
	"time"
	"webhook_bot/internal/models"
	"webhook_bot/internal/modules/storage/service/pg/positions/sql"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Positions: запросы к таблице positions и маппинг в models.
type Positions struct {
	sql *sql.Queries
}

func New() *Positions {
	return &Positions{
		sql: sql.New(),
	}
}

func (p *Positions) Insert(ctx context.Context, tx sql.DBTX, pos *models.Position) (out *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.Insert: %w", err)
		}
	}()
	row, err := p.sql.Insert(ctx, tx, &sql.InsertParams{
		Instrument:     pos.Instrument,
		Timeframe:      pos.Timeframe,
		Quantity:       pos.Quantity,
		NotionalAtOpen: pos.NotionalAtOpen,
		AvgBuyPrice:    pos.AvgBuyPrice,
		CreatedAt:      pos.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	return toModel(row), nil
}

// GetOpen возвращает nil, nil, если открытой позиции нет.
func (p *Positions) GetOpen(ctx context.Context, tx sql.DBTX, instrument, timeframe string) (out *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.GetOpen: %w", err)
		}
	}()
	row, err := p.sql.GetOpen(ctx, tx, &sql.GetOpenParams{
		Instrument: instrument,
		Timeframe:  timeframe,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModel(row), nil
}

// CloseOpen закрывает позицию, только если она ещё открыта.
// Ноль строк: models.ErrNotFound.
func (p *Positions) CloseOpen(ctx context.Context, tx sql.DBTX, id int64, avgSellPrice decimal.Decimal, closedAt time.Time) (out *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.CloseOpen: %w", err)
		}
	}()
	row, err := p.sql.CloseOpen(ctx, tx, &sql.CloseOpenParams{
		ID:           id,
		AvgSellPrice: decimal.NewNullDecimal(avgSellPrice),
		ClosedAt:     &closedAt,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toModel(row), nil
}

func (p *Positions) ListOpen(ctx context.Context, tx sql.DBTX) (out []*models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.ListOpen: %w", err)
		}
	}()
	rows, err := p.sql.ListOpen(ctx, tx)
	if err != nil {
		return nil, err
	}
	out = make([]*models.Position, 0, len(rows))
	for i := range rows {
		out = append(out, toModel(rows[i]))
	}
	return out, nil
}

func toModel(r sql.Position) *models.Position {
	return &models.Position{
		ID:             r.ID,
		Instrument:     r.Instrument,
		Timeframe:      r.Timeframe,
		Quantity:       r.Quantity,
		NotionalAtOpen: r.NotionalAtOpen,
		AvgBuyPrice:    r.AvgBuyPrice,
		AvgSellPrice:   r.AvgSellPrice,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		ClosedAt:       r.ClosedAt,
	}
}
