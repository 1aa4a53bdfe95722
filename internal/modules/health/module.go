package health

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
	"webhook_bot/internal/modules/config"
	"webhook_bot/internal/modules/health/service"
	storage "webhook_bot/internal/modules/storage/service"
	"webhook_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type Config struct {
	Addr string // например ":8081"
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.AdminPort)}
}

func NewMux(state *service.State, store *storage.Info) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		// readiness: стартовали и хранилище отвечает
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Warn("readyz: storage ping: %v", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// полезный JSON для отладки
		resp := map[string]any{
			"ready":     state.Ready(),
			"storage":   store.Kind,
			"uptimeSec": int64(state.Uptime().Seconds()),
			"lastSignalUnix": func() int64 {
				t := state.LastSignal()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		}
		data, err := sonic.Marshal(resp)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux, state *service.State) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			go func() { _ = srv.Serve(ln) }()
			logger.Info("admin http on %s", cfg.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			state.SetReady(false)
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
