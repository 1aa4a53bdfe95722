package pg

import (
	"context"
	"fmt"
	"webhook_bot/internal/models"
	"webhook_bot/internal/modules/storage/service/pg/settings"
	"webhook_bot/pkg/db"

	"github.com/shopspring/decimal"
)

// Settings: управляющие настройки из таблицы settings.
type Settings struct {
	db   db.TxManager
	repo *settings.Settings

	defaultPositionUSDT decimal.Decimal
}

func NewSettings(tx db.TxManager, defaultPositionUSDT decimal.Decimal) *Settings {
	return &Settings{
		db:                  tx,
		repo:                settings.New(),
		defaultPositionUSDT: defaultPositionUSDT,
	}
}

// Snapshot читает оба ключа одним запросом.
func (s *Settings) Snapshot(ctx context.Context) (out models.TradingSettings, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Snapshot: %w", err)
		}
	}()
	raw, err := s.repo.GetByKeys(ctx, s.db.Conn(), models.SettingTradingEnabled, models.SettingPositionUSDT)
	if err != nil {
		return models.TradingSettings{}, err
	}
	return models.NewTradingSettings(raw, s.defaultPositionUSDT)
}

func (s *Settings) Set(ctx context.Context, key, value string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Set: %w", err)
		}
	}()
	return s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx db.Transaction) error {
			return s.repo.Upsert(ctxTx, tx, key, value)
		})
}
