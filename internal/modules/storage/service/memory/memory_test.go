package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"webhook_bot/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPosition(inst, tf string) *models.Position {
	return &models.Position{
		Instrument:     inst,
		Timeframe:      tf,
		Quantity:       decimal.RequireFromString("0.002"),
		NotionalAtOpen: decimal.RequireFromString("100.02"),
		AvgBuyPrice:    decimal.RequireFromString("50010"),
	}
}

func TestPositions_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewPositions()

	pos, err := store.FindOpen(ctx, "BTC-USDT", "1h")
	require.NoError(t, err)
	assert.Nil(t, pos)

	created, err := store.Create(ctx, newPosition("BTC-USDT", "1h"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = store.Create(ctx, newPosition("BTC-USDT", "1h"))
	assert.ErrorIs(t, err, models.ErrConflict)

	// другой таймфрейм: другой ключ
	_, err = store.Create(ctx, newPosition("BTC-USDT", "4h"))
	require.NoError(t, err)

	open, err := store.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 2)

	closedAt := created.CreatedAt.Add(time.Hour)
	closed, err := store.CloseExisting(ctx, created.ID, decimal.RequireFromString("51000"), closedAt)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen())
	assert.Equal(t, "51000", closed.AvgSellPrice.Decimal.String())

	_, err = store.CloseExisting(ctx, created.ID, decimal.RequireFromString("52000"), closedAt)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = store.CloseExisting(ctx, 999, decimal.NewFromInt(1), closedAt)
	assert.ErrorIs(t, err, models.ErrNotFound)

	pos, err = store.FindOpen(ctx, "BTC-USDT", "1h")
	require.NoError(t, err)
	assert.Nil(t, pos)

	// после закрытия ключ снова свободен
	_, err = store.Create(ctx, newPosition("BTC-USDT", "1h"))
	require.NoError(t, err)
}

func TestPositions_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewPositions()

	created, err := store.Create(ctx, newPosition("ETH-USDT", "15m"))
	require.NoError(t, err)
	created.Quantity = decimal.NewFromInt(42)

	found, err := store.FindOpen(ctx, "ETH-USDT", "15m")
	require.NoError(t, err)
	assert.Equal(t, "0.002", found.Quantity.String())
}

func TestPositions_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := NewPositions()

	var (
		wg        sync.WaitGroup
		wins      atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(ctx, newPosition("SOL-USDT", "1h"))
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, models.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(49), conflicts.Load())
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := NewSettings(decimal.NewFromInt(100))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, snap.TradingEnabled)
	assert.Equal(t, "100", snap.PositionUSDT.String())

	require.NoError(t, s.Set(ctx, models.SettingTradingEnabled, "true"))
	require.NoError(t, s.Set(ctx, models.SettingPositionUSDT, "25.5"))
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.TradingEnabled)
	assert.Equal(t, "25.5", snap.PositionUSDT.String())

	require.NoError(t, s.Set(ctx, models.SettingPositionUSDT, "-1"))
	_, err = s.Snapshot(ctx)
	assert.ErrorIs(t, err, models.ErrInvalidSettings)
}
