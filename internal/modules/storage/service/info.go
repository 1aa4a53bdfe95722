package service

import "context"

const (
	KindPostgres = "postgres"
	KindMemory   = "memory"
)

// Info: какое хранилище выбрано и как проверить, что оно живо.
type Info struct {
	Kind string
	ping func(ctx context.Context) error
}

func NewInfo(kind string, ping func(ctx context.Context) error) *Info {
	return &Info{Kind: kind, ping: ping}
}

func (i *Info) Ping(ctx context.Context) error {
	if i.ping == nil {
		return nil
	}
	return i.ping(ctx)
}
