package service

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter: POST {path} за allowlist, на остальные методы mux отвечает 405.
// proxies: адреса reverse proxy, которым можно верить в X-Forwarded-For.
func NewRouter(path string, h http.Handler, allowlist, proxies *Allowlist) *mux.Router {
	router := mux.NewRouter()
	router.Use(Recovery)
	router.Use(Logging(proxies))

	router.Handle(path, RequireAllowed(allowlist, proxies)(h)).Methods(http.MethodPost)

	return router
}
