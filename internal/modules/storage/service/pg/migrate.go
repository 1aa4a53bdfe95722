package pg

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"webhook_bot/pkg/db"
	"webhook_bot/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate применяет схему. Все скрипты идемпотентны (IF NOT EXISTS),
// поэтому выполняются при каждом старте по порядку имён.
func Migrate(ctx context.Context, tx db.TxManager) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("pg.Migrate: %w", err)
	}
	sort.Strings(names)

	return tx.RunMaster(ctx, func(ctxTx context.Context, t db.Transaction) error {
		for _, name := range names {
			script, err := migrations.ReadFile(name)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			if _, err = t.Exec(ctxTx, string(script)); err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
			logger.Debug("migration %s applied", name)
		}
		return nil
	})
}
