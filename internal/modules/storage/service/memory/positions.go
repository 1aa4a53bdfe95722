package memory

import (
	"context"
	"sort"
	"sync"
	"time"
	"webhook_bot/internal/helper"
	"webhook_bot/internal/models"

	"github.com/shopspring/decimal"
)

// Positions: PositionStore в памяти процесса. Те же гарантии, что у pg:
// одна открытая позиция на ключ, закрытие только открытой.
type Positions struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.Position
	open   map[string]int64 // ключ instrument:timeframe -> id
	now    func() time.Time
}

func NewPositions() *Positions {
	return &Positions{
		byID: make(map[int64]*models.Position),
		open: make(map[string]int64),
		now:  time.Now,
	}
}

func (p *Positions) FindOpen(_ context.Context, instrument, timeframe string) (*models.Position, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	id, ok := p.open[helper.PositionKey(instrument, timeframe)]
	if !ok {
		return nil, nil
	}
	return clone(p.byID[id]), nil
}

func (p *Positions) Create(_ context.Context, pos *models.Position) (*models.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := helper.PositionKey(pos.Instrument, pos.Timeframe)
	if _, ok := p.open[key]; ok {
		return nil, models.ErrConflict
	}

	p.nextID++
	stored := clone(pos)
	stored.ID = p.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = p.now()
	}
	stored.UpdatedAt = stored.CreatedAt
	stored.AvgSellPrice = decimal.NullDecimal{}
	stored.ClosedAt = nil

	p.byID[stored.ID] = stored
	p.open[key] = stored.ID
	return clone(stored), nil
}

func (p *Positions) CloseExisting(_ context.Context, id int64, avgSellPrice decimal.Decimal, closedAt time.Time) (*models.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos, ok := p.byID[id]
	if !ok || !pos.IsOpen() {
		return nil, models.ErrNotFound
	}
	pos.AvgSellPrice = decimal.NewNullDecimal(avgSellPrice)
	pos.ClosedAt = &closedAt
	pos.UpdatedAt = closedAt
	delete(p.open, helper.PositionKey(pos.Instrument, pos.Timeframe))
	return clone(pos), nil
}

func (p *Positions) ListOpen(_ context.Context) ([]*models.Position, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*models.Position, 0, len(p.open))
	for _, id := range p.open {
		out = append(out, clone(p.byID[id]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func clone(p *models.Position) *models.Position {
	c := *p
	if p.ClosedAt != nil {
		t := *p.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}
