package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"webhook_bot/internal/models"
	"webhook_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botAPI: то, что нужно от *tgbot.BotAPI.
type botAPI interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	GetUpdatesChan(config tgbot.UpdateConfig) tgbot.UpdatesChannel
	StopReceivingUpdates()
}

type PositionLister interface {
	ListOpen(ctx context.Context) ([]*models.Position, error)
}

type SettingsEditor interface {
	Snapshot(ctx context.Context) (models.TradingSettings, error)
	Set(ctx context.Context, key, value string) error
}

// ExchangeCloser: ручное закрытие позиции на бирже по её positionId.
type ExchangeCloser interface {
	ClosePosition(ctx context.Context, env models.Environment, positionID string) error
}

// Telegram: уведомления в один чат плюс операторские команды:
// /positions, /status, /enable, /disable, /close. Команды принимаются только из chatID.
type Telegram struct {
	bot       botAPI
	chatID    int64
	positions PositionLister
	settings  SettingsEditor
	closer    ExchangeCloser
	now       func() time.Time

	sendTimeout time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

const (
	// pollTimeout: long-polling getUpdates, секунды.
	pollTimeout = 30
	// httpTimeout больше pollTimeout, иначе getUpdates рвётся по таймауту.
	httpTimeout = 45 * time.Second
	// sendTimeout: дольше этого Send не ждёт, даже если API Telegram висит.
	sendTimeout = 5 * time.Second
)

func NewTelegram(
	token string,
	chatID int64,
	positions PositionLister,
	settings SettingsEditor,
	closer ExchangeCloser,
) (*Telegram, error) {
	b, err := tgbot.NewBotAPIWithClient(token, tgbot.APIEndpoint, &http.Client{Timeout: httpTimeout})
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	t := newTelegram(b, chatID, positions, settings)
	t.closer = closer
	return t, nil
}

func newTelegram(bot botAPI, chatID int64, positions PositionLister, settings SettingsEditor) *Telegram {
	return &Telegram{
		bot:       bot,
		chatID:    chatID,
		positions: positions,
		settings:  settings,
		now:       time.Now,

		sendTimeout: sendTimeout,
	}
}

// Send ждёт доставку не дольше sendTimeout и не дольше ctx. Зависший
// запрос дорабатывает в фоне до таймаута http-клиента, вызывающий
// (он может держать лок позиции) дальше не ждёт.
func (t *Telegram) Send(ctx context.Context, msg string) bool {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, t.sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg))
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Warn("telegram: send failed: %v", err)
			return false
		}
		return true
	case <-ctx.Done():
		logger.Warn("telegram: send abandoned: %v", ctx.Err())
		return false
	}
}

func (t *Telegram) Sendf(ctx context.Context, format string, args ...any) bool {
	return t.Send(ctx, fmt.Sprintf(format, args...))
}

// Start: long-polling в отдельной горутине до Stop.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}
	ctx, t.cancel = context.WithCancel(ctx)

	u := tgbot.NewUpdate(0)
	u.Timeout = pollTimeout
	u.AllowedUpdates = []string{"message"}
	updates := t.bot.GetUpdatesChan(u)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				t.handleUpdate(ctx, upd)
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {
	if t == nil || t.cancel == nil {
		return
	}
	t.bot.StopReceivingUpdates()
	t.cancel()
	t.wg.Wait()
}

func (t *Telegram) handleUpdate(ctx context.Context, upd tgbot.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}
	if msg.Chat.ID != t.chatID {
		logger.Warn("telegram: command /%s from foreign chat %d ignored", msg.Command(), msg.Chat.ID)
		return
	}

	switch msg.Command() {
	case "positions":
		t.handlePositions(ctx)
	case "status":
		t.handleStatus(ctx)
	case "enable":
		t.setTrading(ctx, true)
	case "disable":
		t.setTrading(ctx, false)
	case "close":
		t.handleClose(ctx, msg.CommandArguments())
	default:
		t.Send(ctx, "Commands: /positions /status /enable /disable /close <positionId> [demo]")
	}
}

func (t *Telegram) handlePositions(ctx context.Context) {
	if t.positions == nil {
		t.Send(ctx, "❗️ Position store is not available")
		return
	}
	list, err := t.positions.ListOpen(ctx)
	if err != nil {
		logger.Error("telegram: list positions: %v", err)
		t.Send(ctx, "❗️ Failed to load positions")
		return
	}
	t.Send(ctx, formatPositions(list, t.now()))
}

func (t *Telegram) handleStatus(ctx context.Context) {
	if t.settings == nil {
		t.Send(ctx, "❗️ Settings are not available")
		return
	}
	s, err := t.settings.Snapshot(ctx)
	if err != nil {
		t.Sendf(ctx, "❗️ Settings error: %v", err)
		return
	}
	t.Send(ctx, formatStatus(s))
}

func (t *Telegram) setTrading(ctx context.Context, enabled bool) {
	if t.settings == nil {
		t.Send(ctx, "❗️ Settings are not available")
		return
	}
	if err := t.settings.Set(ctx, models.SettingTradingEnabled, strconv.FormatBool(enabled)); err != nil {
		logger.Error("telegram: set %s: %v", models.SettingTradingEnabled, err)
		t.Send(ctx, "⚠️ Failed to save setting")
		return
	}
	logger.Info("telegram: trading_enabled=%t by operator", enabled)
	t.handleStatus(ctx)
}

// handleClose: "/close <positionId> [demo]". Запись в store не трогаем:
// команда для сверки, когда биржа и store разошлись.
func (t *Telegram) handleClose(ctx context.Context, args string) {
	if t.closer == nil {
		t.Send(ctx, "❗️ Exchange is not available")
		return
	}
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		t.Send(ctx, "Usage: /close <positionId> [demo]")
		return
	}
	env := models.EnvLive
	if len(fields) == 2 {
		var err error
		if env, err = models.ParseEnvironment(fields[1]); err != nil {
			t.Send(ctx, "Usage: /close <positionId> [demo]")
			return
		}
	}

	if err := t.closer.ClosePosition(ctx, env, fields[0]); err != nil {
		logger.Error("telegram: close position %s (%s): %v", fields[0], env, err)
		t.Sendf(ctx, "❗️ Close %s (%s) failed: %v", fields[0], env, err)
		return
	}
	logger.Info("telegram: position %s (%s) closed by operator", fields[0], env)
	t.Sendf(ctx, "✅ Position %s (%s) closed on exchange. Local records are unchanged, check /positions", fields[0], env)
}
