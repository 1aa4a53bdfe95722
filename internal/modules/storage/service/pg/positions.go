package pg

import (
	"context"
	"fmt"
	"time"
	"webhook_bot/internal/models"
	"webhook_bot/internal/modules/storage/service/pg/positions"
	"webhook_bot/pkg/db"

	"github.com/shopspring/decimal"
)

// Positions: PositionStore поверх PostgreSQL.
// Единственность открытой позиции держит частичный уникальный индекс positions_open_key.
type Positions struct {
	db   db.TxManager
	repo *positions.Positions
	now  func() time.Time
}

func NewPositions(tx db.TxManager) *Positions {
	return &Positions{
		db:   tx,
		repo: positions.New(),
		now:  time.Now,
	}
}

func (p *Positions) FindOpen(ctx context.Context, instrument, timeframe string) (pos *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.FindOpen: %w", err)
		}
	}()
	return p.repo.GetOpen(ctx, p.db.Conn(), instrument, timeframe)
}

func (p *Positions) Create(ctx context.Context, pos *models.Position) (out *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Create: %w", err)
		}
	}()
	// позицию вызывающего не трогаем
	in := *pos
	if in.CreatedAt.IsZero() {
		in.CreatedAt = p.now()
	}

	err = p.db.RunMaster(ctx,
		func(ctxTx context.Context, tx db.Transaction) error {
			out, err = p.repo.Insert(ctxTx, tx, &in)
			return err
		})
	if db.IsUniqueViolation(err) {
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Positions) CloseExisting(
	ctx context.Context,
	id int64,
	avgSellPrice decimal.Decimal,
	closedAt time.Time,
) (out *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.CloseExisting: %w", err)
		}
	}()
	err = p.db.RunMaster(ctx,
		func(ctxTx context.Context, tx db.Transaction) error {
			out, err = p.repo.CloseOpen(ctxTx, tx, id, avgSellPrice, closedAt)
			return err
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Positions) ListOpen(ctx context.Context) (out []*models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.ListOpen: %w", err)
		}
	}()
	return p.repo.ListOpen(ctx, p.db.Conn())
}
