package service

import (
	"context"
	"fmt"
	"sync"
	"time"
	"webhook_bot/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// снимаем лок, только если он всё ещё наш
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

const (
	defaultLockTTL  = time.Minute
	defaultLockPoll = 100 * time.Millisecond
)

// Redis: распределённый лок для нескольких реплик, SET NX PX с токеном
// и ожиданием в цикле до истечения wait.
type Redis struct {
	rdb      redis.Cmdable
	unlockSc *redis.Script
	wait     time.Duration
	ttl      time.Duration
	poll     time.Duration
}

// NewRedis: ttl должен перекрывать всю обработку сигнала, иначе лок
// истечёт посреди сделки. ttl <= 0: defaultLockTTL.
func NewRedis(rdb redis.Cmdable, wait, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Redis{
		rdb:      rdb,
		unlockSc: redis.NewScript(unlockLua),
		wait:     wait,
		ttl:      ttl,
		poll:     defaultLockPoll,
	}
}

func lockKey(key string) string {
	return "webhook_bot:lock:" + key
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	lk := lockKey(key)

	waitCtx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()

	for {
		ok, err := r.rdb.SetNX(waitCtx, lk, token, r.ttl).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("redis: acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-waitCtx.Done():
			return nil, waitErr(ctx, key)
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// контекст вызывающего к этому моменту может быть уже отменён
			unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := r.unlockSc.Run(unlockCtx, r.rdb, []string{lk}, token).Err(); err != nil {
				logger.Warn("redis: release lock %s: %v", key, err)
			}
		})
	}, nil
}
