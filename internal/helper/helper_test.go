package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormTF(t *testing.T) {
	cases := map[string]string{
		"60":   "1h",
		"60m":  "1h",
		"1h":   "1h",
		"240":  "4h",
		"15":   "15m",
		"15m":  "15m",
		"D":    "1d",
		"1D":   "1d",
		"W":    "1w",
		"1M":   "1mo",
		"3M":   "3mo",
		"M":    "1mo",
		"1mo":  "1mo",
		"1m":   "1m",
		"3m":   "3m",
		" 5 ":  "5m",
		"":     "",
		"tick": "tick",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormTF(in), "NormTF(%q)", in)
	}
}

func TestPositionKey(t *testing.T) {
	assert.Equal(t, "BTC-USDT:1h", PositionKey("BTC-USDT", "1h"))
	// месячная и минутная стратегии не делят одну позицию
	assert.NotEqual(t, PositionKey("BTC-USDT", NormTF("1M")), PositionKey("BTC-USDT", NormTF("1m")))
}

func TestClientIP(t *testing.T) {
	proxies := map[string]bool{"10.0.0.1": true, "10.0.0.2": true}
	trusted := func(ip string) bool { return proxies[ip] }

	r := httptest.NewRequest("POST", "/webhook", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientIP(r, trusted))

	r.Header.Set("X-Forwarded-For", "52.89.214.238, 10.0.0.2")
	assert.Equal(t, "52.89.214.238", ClientIP(r, trusted))

	// подделанное начало цепочки не помогает: берём правый недоверенный адрес
	r.Header.Set("X-Forwarded-For", "52.89.214.238, 8.8.8.8, 10.0.0.2")
	assert.Equal(t, "8.8.8.8", ClientIP(r, trusted))
}

func TestClientIP_UntrustedPeerIgnoresHeader(t *testing.T) {
	r := httptest.NewRequest("POST", "/webhook", nil)
	r.RemoteAddr = "127.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "52.89.214.238")

	assert.Equal(t, "127.0.0.1", ClientIP(r, nil))
	assert.Equal(t, "127.0.0.1", ClientIP(r, func(string) bool { return false }))
}
