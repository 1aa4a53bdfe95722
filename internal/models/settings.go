package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SettingTradingEnabled = "trading_enabled"
	SettingPositionUSDT   = "position_usdt"
)

var ErrInvalidSettings = errors.New("invalid settings")

// TradingSettings: снимок управляющих настроек на один вызов.
type TradingSettings struct {
	TradingEnabled bool
	PositionUSDT   decimal.Decimal
}

// NewTradingSettings собирает снимок из сырых key/value.
// Торговля включена только при значении ровно "true".
func NewTradingSettings(raw map[string]string, defaultPositionUSDT decimal.Decimal) (TradingSettings, error) {
	s := TradingSettings{
		TradingEnabled: strings.TrimSpace(raw[SettingTradingEnabled]) == "true",
		PositionUSDT:   defaultPositionUSDT,
	}

	if v, ok := raw[SettingPositionUSDT]; ok && strings.TrimSpace(v) != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return TradingSettings{}, fmt.Errorf("%w: %s=%q: %v", ErrInvalidSettings, SettingPositionUSDT, v, err)
		}
		s.PositionUSDT = d
	}
	if !s.PositionUSDT.IsPositive() {
		return TradingSettings{}, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidSettings, SettingPositionUSDT, s.PositionUSDT)
	}
	return s, nil
}
