package service

import (
	"net/http"
	"runtime/debug"
	"time"
	"webhook_bot/internal/helper"
	"webhook_bot/pkg/logger"

	"github.com/gorilla/mux"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Recovery превращает панику в handler в 500 и не роняет сервер.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("panic in %s %s: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
				writeStatus(w, http.StatusInternalServerError, "Internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Logging пишет строку на запрос; адрес клиента с учётом доверенных прокси.
func Logging(proxies *Allowlist) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("%s %s - %d - %v - %s - %d bytes",
				r.Method, r.URL.Path, wrapped.statusCode, time.Since(start),
				helper.ClientIP(r, proxies.Contains), wrapped.written)
		})
	}
}

// RequireAllowed отсекает чужие IP до разбора тела. X-Forwarded-For
// принимается только от proxies, иначе проверяется адрес соединения.
func RequireAllowed(a *Allowlist, proxies *Allowlist) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := helper.ClientIP(r, proxies.Contains)
			if !a.Allowed(ip) {
				logger.Warn("unauthorized webhook access attempt from IP: %s (peer %s)", ip, r.RemoteAddr)
				writeStatus(w, http.StatusForbidden, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
