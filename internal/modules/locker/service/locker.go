package service

import (
	"context"
	"errors"
	"fmt"
)

// ErrLockTimeout: ключ так и не освободился за отведённое ожидание.
var ErrLockTimeout = errors.New("lock wait timeout")

// Locker сериализует обработку сигналов по ключу instrument:timeframe.
// unlock можно звать сколько угодно раз.
type Locker interface {
	Acquire(ctx context.Context, key string) (unlock func(), err error)
}

// waitErr различает истёкшее ожидание лока и отмену вызывающего.
func waitErr(parent context.Context, key string) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", ErrLockTimeout, key)
}
