package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"webhook_bot/internal/modules/health/service"
	storage "webhook_bot/internal/modules/storage/service"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadyz(t *testing.T) {
	state := service.NewState()
	var pingErr error
	mux := NewMux(state, storage.NewInfo(storage.KindPostgres, func(context.Context) error { return pingErr }))

	assert.Equal(t, http.StatusOK, get(t, mux, "/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, mux, "/readyz").Code)

	state.SetReady(true)
	assert.Equal(t, http.StatusOK, get(t, mux, "/readyz").Code)

	pingErr = errors.New("db down")
	assert.Equal(t, http.StatusServiceUnavailable, get(t, mux, "/readyz").Code)
}

func TestHealthz(t *testing.T) {
	state := service.NewState()
	state.SetReady(true)
	at := time.Unix(1700000000, 0)
	state.TouchSignal(at)
	mux := NewMux(state, storage.NewInfo(storage.KindMemory, nil))

	rec := get(t, mux, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Ready          bool   `json:"ready"`
		Storage        string `json:"storage"`
		LastSignalUnix int64  `json:"lastSignalUnix"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Ready)
	assert.Equal(t, "memory", body.Storage)
	assert.Equal(t, at.Unix(), body.LastSignalUnix)
}

func TestMetrics(t *testing.T) {
	mux := NewMux(service.NewState(), storage.NewInfo(storage.KindMemory, nil))
	rec := get(t, mux, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
