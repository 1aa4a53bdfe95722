package locker

import (
	"context"
	"fmt"
	"time"
	"webhook_bot/internal/modules/config"
	"webhook_bot/internal/modules/locker/service"
	"webhook_bot/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const lockTTLSlack = 30 * time.Second

// NewLocker: redis, если задан redis.addr, иначе локи в памяти процесса.
func NewLocker(ctx context.Context, lc fx.Lifecycle, cfg *config.Config) (service.Locker, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("locker: in-memory, wait=%s", cfg.Trading.LockWait)
		return service.NewMemory(cfg.Trading.LockWait), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	lc.Append(fx.StopHook(rdb.Close))

	ttl := lockTTL(cfg)
	logger.Info("locker: redis %s, wait=%s ttl=%s", cfg.Redis.Addr, cfg.Trading.LockWait, ttl)
	return service.NewRedis(rdb, cfg.Trading.LockWait, ttl), nil
}

// lockTTL: лок живёт дольше, чем сигнал может его держать.
func lockTTL(cfg *config.Config) time.Duration {
	return cfg.SignalBudget() + lockTTLSlack
}

func Module() fx.Option {
	return fx.Module("locker",
		fx.Provide(NewLocker),
	)
}
