package webhook

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
	"webhook_bot/internal/modules/config"
	health "webhook_bot/internal/modules/health/service"
	"webhook_bot/internal/modules/webhook/service"
	"webhook_bot/internal/runner"
	"webhook_bot/pkg/logger"

	"go.uber.org/fx"
)

func NewServer(cfg *config.Config, r *runner.Runner, state *health.State) *http.Server {
	allowlist := service.NewAllowlist(cfg.Service.AllowedIPs)
	if allowlist.Empty() {
		logger.Warn("webhook: allowed_ips is empty, accepting signals from any address")
	}

	proxies := service.NewAllowlist(cfg.Service.TrustedProxies)
	if !proxies.Empty() {
		logger.Info("webhook: X-Forwarded-For trusted from %v", cfg.Service.TrustedProxies)
	}

	h := service.NewHandler(r, state, cfg.SignalBudget())
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort),
		Handler:           service.NewRouter(cfg.Service.WebhookPath, h, allowlist, proxies),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
	}
}

func RunHTTP(lc fx.Lifecycle, srv *http.Server, cfg *config.Config, state *health.State) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("webhook http: %v", err)
				}
			}()
			state.SetReady(true)
			logger.Info("webhook listening on %s%s", srv.Addr, cfg.Service.WebhookPath)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			state.SetReady(false)
			// Shutdown дожидается сигналов, которые уже в работе
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("webhook",
		fx.Provide(NewServer),
		fx.Invoke(RunHTTP),
	)
}
