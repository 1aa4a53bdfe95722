package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"webhook_bot/internal/models"
	"webhook_bot/internal/runner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu   sync.Mutex
	got  []models.Signal
	err  error
	ctxs []context.Context
}

func (f *fakeRunner) HandleSignal(ctx context.Context, sig models.Signal) (*runner.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, sig)
	f.ctxs = append(f.ctxs, ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &runner.Outcome{Side: sig.Side}, nil
}

type fakeRecorder struct{ last time.Time }

func (f *fakeRecorder) TouchSignal(t time.Time) { f.last = t }

const (
	tvIP = "52.89.214.238"
	// httptest слушает на loopback: в тестах это и есть reverse proxy
	proxyIP = "127.0.0.1"
)

func newServer(t *testing.T, r SignalHandler, rec SignalRecorder, ips []string) *httptest.Server {
	t.Helper()
	return newServerBehind(t, r, rec, ips, []string{proxyIP})
}

func newServerBehind(t *testing.T, r SignalHandler, rec SignalRecorder, ips, proxies []string) *httptest.Server {
	t.Helper()
	h := NewHandler(r, rec, time.Second)
	srv := httptest.NewServer(NewRouter("/webhook", h, NewAllowlist(ips), NewAllowlist(proxies)))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body, forwardedFor string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/webhook", strings.NewReader(body))
	require.NoError(t, err)
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestWebhook_Success(t *testing.T) {
	r := &fakeRunner{}
	rec := &fakeRecorder{}
	srv := newServer(t, r, rec, []string{tvIP})

	code, body := post(t, srv, "BTC-USDT,BUY,60,false", tvIP+", "+proxyIP)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"success"}`, body)

	require.Len(t, r.got, 1)
	sig := r.got[0]
	assert.Equal(t, "BTC-USDT", sig.Instrument)
	assert.Equal(t, models.SideBuy, sig.Side)
	assert.Equal(t, "1h", sig.Timeframe)
	assert.Equal(t, models.EnvLive, sig.Environment)
	assert.False(t, rec.last.IsZero())

	_, hasDeadline := r.ctxs[0].Deadline()
	assert.True(t, hasDeadline)
}

func TestWebhook_JSONBodyDemo(t *testing.T) {
	r := &fakeRunner{}
	srv := newServer(t, r, nil, []string{tvIP})

	code, _ := post(t, srv, `{"ticker":"eth-usdt","side":"sell","timeframe":"4h","demo":true}`, tvIP)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, r.got, 1)
	assert.Equal(t, "ETH-USDT", r.got[0].Instrument)
	assert.Equal(t, models.SideSell, r.got[0].Side)
	assert.Equal(t, models.EnvDemo, r.got[0].Environment)
}

func TestWebhook_Forbidden(t *testing.T) {
	r := &fakeRunner{}
	srv := newServer(t, r, nil, []string{tvIP})

	code, body := post(t, srv, "BTC-USDT,BUY,1h,false", "8.8.8.8")
	assert.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{"status":"Unauthorized"}`, body)

	// без X-Forwarded-For берётся RemoteAddr (127.0.0.1)
	code, _ = post(t, srv, "BTC-USDT,BUY,1h,false", "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Empty(t, r.got)
}

func TestWebhook_ForwardedForFromUntrustedPeer(t *testing.T) {
	r := &fakeRunner{}
	srv := newServerBehind(t, r, nil, []string{tvIP}, nil)

	code, body := post(t, srv, "BTC-USDT,BUY,1h,false", tvIP)
	assert.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{"status":"Unauthorized"}`, body)
	assert.Empty(t, r.got)
}

func TestWebhook_ForwardedForSpoofedBehindProxy(t *testing.T) {
	r := &fakeRunner{}
	srv := newServer(t, r, nil, []string{tvIP})

	// прокси дописывает реальный адрес клиента справа
	code, _ := post(t, srv, "BTC-USDT,BUY,1h,false", tvIP+", 8.8.8.8")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Empty(t, r.got)
}

func TestWebhook_EmptyAllowlistAllowsAll(t *testing.T) {
	r := &fakeRunner{}
	srv := newServer(t, r, nil, nil)

	code, _ := post(t, srv, "BTC-USDT,BUY,1h,false", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestWebhook_InvalidFormat(t *testing.T) {
	r := &fakeRunner{}
	srv := newServer(t, r, nil, nil)

	for _, body := range []string{
		"",
		"BTC-USDT,BUY,1h",
		"BTC-USDT,HOLD,1h,false",
		"BTC-USDT,BUY,1h,maybe",
		`{"side":"BUY"`,
		strings.Repeat("A", maxBodySize+1),
	} {
		code, resp := post(t, srv, body, "")
		assert.Equal(t, http.StatusBadRequest, code, body)
		assert.JSONEq(t, `{"status":"Invalid data format"}`, resp)
	}
	assert.Empty(t, r.got)
}

func TestWebhook_Rejection(t *testing.T) {
	r := &fakeRunner{err: &runner.Rejection{
		Kind:   runner.ErrPositionAlreadyOpen,
		Reason: "Position already exists",
	}}
	srv := newServer(t, r, nil, nil)

	code, body := post(t, srv, "BTC-USDT,BUY,1h,false", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"status":"Position already exists"}`, body)

	r.err = errors.New("unexpected")
	code, body = post(t, srv, "BTC-USDT,BUY,1h,false", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"status":"Exchange error"}`, body)
}

func TestWebhook_MethodNotAllowed(t *testing.T) {
	srv := newServer(t, &fakeRunner{}, nil, nil)

	resp, err := srv.Client().Get(srv.URL + "/webhook")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = srv.Client().Post(srv.URL+"/other", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type panicRunner struct{}

func (panicRunner) HandleSignal(context.Context, models.Signal) (*runner.Outcome, error) {
	panic("boom")
}

func TestWebhook_Recovery(t *testing.T) {
	srv := newServer(t, panicRunner{}, nil, nil)
	code, _ := post(t, srv, "BTC-USDT,BUY,1h,false", "")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestAllowlist(t *testing.T) {
	a := NewAllowlist([]string{" 52.89.214.238 ", "34.212.75.30"})
	assert.True(t, a.Allowed("52.89.214.238"))
	assert.True(t, a.Allowed("::ffff:34.212.75.30"))
	assert.False(t, a.Allowed("1.1.1.1"))
	assert.False(t, a.Allowed(""))
	assert.False(t, a.Empty())

	assert.True(t, NewAllowlist(nil).Allowed("1.1.1.1"))
	assert.True(t, NewAllowlist([]string{""}).Empty())

	assert.True(t, a.Contains("52.89.214.238"))
	assert.False(t, NewAllowlist(nil).Contains("1.1.1.1"))
	var none *Allowlist
	assert.False(t, none.Contains("1.1.1.1"))
}
