package memory

import (
	"context"
	"sync"
	"webhook_bot/internal/models"

	"github.com/shopspring/decimal"
)

type Settings struct {
	mu   sync.RWMutex
	data map[string]string

	defaultPositionUSDT decimal.Decimal
}

func NewSettings(defaultPositionUSDT decimal.Decimal) *Settings {
	return &Settings{
		data:                make(map[string]string),
		defaultPositionUSDT: defaultPositionUSDT,
	}
}

func (s *Settings) Snapshot(_ context.Context) (models.TradingSettings, error) {
	s.mu.RLock()
	raw := make(map[string]string, len(s.data))
	for k, v := range s.data {
		raw[k] = v
	}
	s.mu.RUnlock()

	return models.NewTradingSettings(raw, s.defaultPositionUSDT)
}

func (s *Settings) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}
