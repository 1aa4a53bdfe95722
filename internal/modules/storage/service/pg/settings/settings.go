package settings

import (
	"context"
	"fmt"
	"webhook_bot/internal/modules/storage/service/pg/settings/sql"
)

type Settings struct {
	sql *sql.Queries
}

func New() *Settings {
	return &Settings{
		sql: sql.New(),
	}
}

// GetByKeys читает значения одним запросом. Отсутствующих ключей в ответе нет.
func (s *Settings) GetByKeys(ctx context.Context, tx sql.DBTX, keys ...string) (out map[string]string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Settings.GetByKeys: %w", err)
		}
	}()
	rows, err := s.sql.GetByKeys(ctx, tx, keys)
	if err != nil {
		return nil, err
	}
	out = make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func (s *Settings) Upsert(ctx context.Context, tx sql.DBTX, key, value string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Settings.Upsert: %w", err)
		}
	}()
	return s.sql.Upsert(ctx, tx, &sql.UpsertParams{
		Key:   key,
		Value: value,
	})
}
