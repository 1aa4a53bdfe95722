package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
	"webhook_bot/internal/models"
)

// Clients: по одному клиенту на контур, общий пул соединений.
type Clients struct {
	byEnv map[models.Environment]*Client
}

type ClientsConfig struct {
	APIKey      string
	SecretKey   string
	BaseURL     string
	BaseURLDemo string
	Timeout     time.Duration
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

func NewClients(conf ClientsConfig) (*Clients, error) {
	httpClient := NewHTTPClient(conf.Timeout)

	live, err := NewClient(models.EnvLive, Config{
		APIKey:    conf.APIKey,
		SecretKey: conf.SecretKey,
		BaseURL:   conf.BaseURL,
	}, httpClient)
	if err != nil {
		return nil, err
	}
	demo, err := NewClient(models.EnvDemo, Config{
		APIKey:    conf.APIKey,
		SecretKey: conf.SecretKey,
		BaseURL:   conf.BaseURLDemo,
	}, httpClient)
	if err != nil {
		return nil, err
	}

	return &Clients{byEnv: map[models.Environment]*Client{
		models.EnvLive: live,
		models.EnvDemo: demo,
	}}, nil
}

func (c *Clients) For(env models.Environment) (*Client, error) {
	cl, ok := c.byEnv[env]
	if !ok {
		return nil, fmt.Errorf("bingx: no client for environment %q", env)
	}
	return cl, nil
}

func (c *Clients) All() map[models.Environment]*Client {
	out := make(map[models.Environment]*Client, len(c.byEnv))
	for env, cl := range c.byEnv {
		out[env] = cl
	}
	return out
}

// ClosePosition: ручное закрытие позиции на бирже в выбранном контуре.
func (c *Clients) ClosePosition(ctx context.Context, env models.Environment, positionID string) error {
	cl, err := c.For(env)
	if err != nil {
		return err
	}
	return cl.ClosePosition(ctx, positionID)
}
