package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDir         = "configs"
)

// TradingView шлёт вебхуки только с этих адресов.
var defaultAllowedIPs = []string{
	"52.89.214.238",
	"34.212.75.30",
	"54.218.53.128",
	"52.32.178.7",
}

// Config ...
type Config struct {
	Service struct {
		Host        string   `mapstructure:"host"`
		PublicPort  int      `mapstructure:"public_port"`
		AdminPort   int      `mapstructure:"admin_port"`
		WebhookPath string   `mapstructure:"webhook_path"`
		AllowedIPs  []string `mapstructure:"allowed_ips"`

		// X-Forwarded-For учитывается только от этих адресов.
		TrustedProxies []string `mapstructure:"trusted_proxies"`
	} `mapstructure:"service"`

	DB      string `mapstructure:"db_dsn"`
	DBConns int32  `mapstructure:"db_max_conns"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	BingX struct {
		APIKey      string        `mapstructure:"api_key"`
		SecretKey   string        `mapstructure:"secret_key"`
		BaseURL     string        `mapstructure:"base_url"`
		BaseURLDemo string        `mapstructure:"base_url_demo"`
		Timeout     time.Duration `mapstructure:"timeout"`
	} `mapstructure:"bingx"`

	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`

	Trading struct {
		// Объём сделки в USDT, если в settings нет position_usdt.
		DefaultPositionUSDT string        `mapstructure:"default_position_usdt"`
		LockWait            time.Duration `mapstructure:"lock_wait"`
	} `mapstructure:"trading"`

	Tracing struct {
		Enabled bool   `mapstructure:"enabled"`
		Host    string `mapstructure:"host"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"tracing"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	v.SetConfigFile(configDir + "/" + configFileName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", configFileName, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.public_port", 8000)
	v.SetDefault("service.admin_port", 8081)
	v.SetDefault("service.webhook_path", "/webhook")
	v.SetDefault("service.allowed_ips", defaultAllowedIPs)

	v.SetDefault("db_max_conns", 10)

	v.SetDefault("bingx.base_url", "https://open-api.bingx.com")
	v.SetDefault("bingx.base_url_demo", "https://open-api-vst.bingx.com")
	v.SetDefault("bingx.timeout", 10*time.Second)

	v.SetDefault("trading.default_position_usdt", "100")
	v.SetDefault("trading.lock_wait", 15*time.Second)

	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)

	v.SetDefault("log.level", "info")
}

// bindEnv: имена переменных как в старом .env.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("bingx.api_key", "API_KEY")
	_ = v.BindEnv("bingx.secret_key", "SECRET_KEY")
	_ = v.BindEnv("bingx.base_url", "BASE_URL")
	_ = v.BindEnv("bingx.base_url_demo", "BASE_URL_DEMO")
	_ = v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("db_dsn", "DATABASE_DSN")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func (c *Config) validate() error {
	if c.BingX.APIKey == "" || c.BingX.SecretKey == "" {
		return errors.New("config: bingx api key and secret key are required")
	}
	if c.BingX.Timeout <= 0 {
		return fmt.Errorf("config: bingx.timeout must be positive, got %s", c.BingX.Timeout)
	}
	if !strings.HasPrefix(c.Service.WebhookPath, "/") {
		return fmt.Errorf("config: service.webhook_path must start with '/', got %q", c.Service.WebhookPath)
	}
	if _, err := c.DefaultPositionUSDT(); err != nil {
		return err
	}
	return nil
}

// DefaultPositionUSDT: запасной объём сделки, если его нет в settings.
func (c *Config) DefaultPositionUSDT() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Trading.DefaultPositionUSDT)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("config: trading.default_position_usdt must be a positive number, got %q", c.Trading.DefaultPositionUSDT)
	}
	return d, nil
}

// SignalBudget: сколько может идти обработка одного сигнала: ожидание
// лока, два запроса к бирже и запас на store.
func (c *Config) SignalBudget() time.Duration {
	return c.Trading.LockWait + 2*c.BingX.Timeout + 5*time.Second
}
