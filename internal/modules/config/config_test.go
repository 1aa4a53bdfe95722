package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp переносит тест в пустой каталог, чтобы не подхватить чужие configs/.env.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestNewConfig_DefaultsAndEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("API_KEY", "key")
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.BingX.APIKey)
	assert.Equal(t, "secret", cfg.BingX.SecretKey)
	assert.Equal(t, "https://open-api.bingx.com", cfg.BingX.BaseURL)
	assert.Equal(t, "https://open-api-vst.bingx.com", cfg.BingX.BaseURLDemo)
	assert.Equal(t, 10*time.Second, cfg.BingX.Timeout)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, "/webhook", cfg.Service.WebhookPath)
	assert.Len(t, cfg.Service.AllowedIPs, 4)
	assert.Equal(t, 15*time.Second, cfg.Trading.LockWait)
	assert.Empty(t, cfg.Service.TrustedProxies)

	d, err := cfg.DefaultPositionUSDT()
	require.NoError(t, err)
	assert.Equal(t, "100", d.String())
}

func TestNewConfig_File(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))
	yaml := `
service:
  public_port: 9000
  allowed_ips: []
  trusted_proxies: ["10.0.0.1"]
bingx:
  api_key: file-key
  secret_key: file-secret
  timeout: 3s
trading:
  default_position_usdt: "25.5"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "test.yaml"), []byte(yaml), 0o600))
	t.Setenv("CONFIG_FILE", "test.yaml")
	t.Setenv("API_KEY", "")
	t.Setenv("SECRET_KEY", "")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Service.PublicPort)
	assert.Empty(t, cfg.Service.AllowedIPs)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.Service.TrustedProxies)
	assert.Equal(t, "file-key", cfg.BingX.APIKey)
	assert.Equal(t, 3*time.Second, cfg.BingX.Timeout)
	// 15s lock wait + 2*3s + 5s
	assert.Equal(t, 26*time.Second, cfg.SignalBudget())

	d, err := cfg.DefaultPositionUSDT()
	require.NoError(t, err)
	assert.Equal(t, "25.5", d.String())
}

func TestNewConfig_MissingCredentials(t *testing.T) {
	chdirTemp(t)
	t.Setenv("API_KEY", "")
	t.Setenv("SECRET_KEY", "")

	_, err := NewConfig()
	assert.Error(t, err)
}
