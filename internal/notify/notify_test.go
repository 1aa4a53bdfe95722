package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"webhook_bot/internal/models"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	mu      sync.Mutex
	sent    []tgbot.MessageConfig
	sendErr error
	updates chan tgbot.Update
	stopped bool
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan tgbot.Update, 8)}
}

func (b *fakeBot) Send(c tgbot.Chattable) (tgbot.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return tgbot.Message{}, b.sendErr
	}
	if m, ok := c.(tgbot.MessageConfig); ok {
		b.sent = append(b.sent, m)
	}
	return tgbot.Message{MessageID: len(b.sent)}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbot.UpdateConfig) tgbot.UpdatesChannel { return b.updates }

func (b *fakeBot) StopReceivingUpdates() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.stopped {
		b.stopped = true
		close(b.updates)
	}
}

func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.sent))
	for _, m := range b.sent {
		out = append(out, m.Text)
	}
	return out
}

type fakePositions struct {
	list []*models.Position
	err  error
}

func (f *fakePositions) ListOpen(context.Context) ([]*models.Position, error) { return f.list, f.err }

type fakeSettings struct {
	mu   sync.Mutex
	data map[string]string
}

func (f *fakeSettings) Snapshot(context.Context) (models.TradingSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.NewTradingSettings(f.data, decimal.NewFromInt(100))
}

func (f *fakeSettings) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

type closeCall struct {
	env models.Environment
	id  string
}

type fakeCloser struct {
	calls []closeCall
	err   error
}

func (f *fakeCloser) ClosePosition(_ context.Context, env models.Environment, positionID string) error {
	f.calls = append(f.calls, closeCall{env: env, id: positionID})
	return f.err
}

// stuckBot: Send висит, пока не закроют release.
type stuckBot struct {
	*fakeBot
	release chan struct{}
}

func (b *stuckBot) Send(c tgbot.Chattable) (tgbot.Message, error) {
	<-b.release
	return b.fakeBot.Send(c)
}

func command(chatID int64, text string) tgbot.Update {
	name, _, _ := strings.Cut(text, " ")
	return tgbot.Update{Message: &tgbot.Message{
		Text:     text,
		Chat:     &tgbot.Chat{ID: chatID},
		Entities: []tgbot.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

const chatID = 42

var openedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func samplePosition() *models.Position {
	return &models.Position{
		ID:             1,
		Instrument:     "BTC-USDT",
		Timeframe:      "1h",
		Quantity:       decimal.RequireFromString("0.002"),
		NotionalAtOpen: decimal.RequireFromString("100.02"),
		AvgBuyPrice:    decimal.RequireFromString("50010"),
		CreatedAt:      openedAt,
	}
}

func TestTelegram_Send(t *testing.T) {
	bot := newFakeBot()
	tg := newTelegram(bot, chatID, nil, nil)

	assert.True(t, tg.Send(context.Background(), "hello"))
	assert.True(t, tg.Sendf(context.Background(), "n=%d", 5))
	assert.Equal(t, []string{"hello", "n=5"}, bot.texts())
	assert.Equal(t, int64(chatID), bot.sent[0].ChatID)

	bot.sendErr = errors.New("blocked by user")
	assert.False(t, tg.Send(context.Background(), "lost"))

	assert.False(t, newTelegram(bot, 0, nil, nil).Send(context.Background(), "no chat"))
	var nilTg *Telegram
	assert.False(t, nilTg.Send(context.Background(), "nil"))
}

func TestTelegram_SendDoesNotWaitForStuckAPI(t *testing.T) {
	bot := &stuckBot{fakeBot: newFakeBot(), release: make(chan struct{})}
	defer close(bot.release)
	tg := newTelegram(bot, chatID, nil, nil)
	tg.sendTimeout = 50 * time.Millisecond

	start := time.Now()
	assert.False(t, tg.Send(context.Background(), "stuck"))
	assert.Less(t, time.Since(start), time.Second)

	// отменённый ctx вызывающего тоже не ждём
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tg.sendTimeout = time.Minute
	start = time.Now()
	assert.False(t, tg.Send(ctx, "cancelled"))
	assert.Less(t, time.Since(start), time.Second)
}

func TestTelegram_Close(t *testing.T) {
	bot := newFakeBot()
	closer := &fakeCloser{}
	tg := newTelegram(bot, chatID, nil, nil)
	tg.closer = closer

	tg.handleUpdate(context.Background(), command(chatID, "/close 12345"))
	tg.handleUpdate(context.Background(), command(chatID, "/close 777 demo"))
	tg.handleUpdate(context.Background(), command(chatID, "/close"))
	tg.handleUpdate(context.Background(), command(chatID, "/close 1 paper"))

	assert.Equal(t, []closeCall{{models.EnvLive, "12345"}, {models.EnvDemo, "777"}}, closer.calls)
	texts := bot.texts()
	require.Len(t, texts, 4)
	assert.Contains(t, texts[0], "Position 12345 (live) closed")
	assert.Contains(t, texts[1], "Position 777 (demo) closed")
	assert.Contains(t, texts[2], "Usage: /close")
	assert.Contains(t, texts[3], "Usage: /close")

	closer.err = errors.New("bingx upstream error: /openApi/swap/v1/trade/closePosition code=101")
	tg.handleUpdate(context.Background(), command(chatID, "/close 12345"))
	assert.Contains(t, bot.texts()[4], "Close 12345 (live) failed")
}

func TestTelegram_CloseForeignChatIgnored(t *testing.T) {
	bot := newFakeBot()
	closer := &fakeCloser{}
	tg := newTelegram(bot, chatID, nil, nil)
	tg.closer = closer

	tg.handleUpdate(context.Background(), command(7, "/close 12345"))
	assert.Empty(t, closer.calls)
	assert.Empty(t, bot.texts())
}

func TestTelegram_Positions(t *testing.T) {
	bot := newFakeBot()
	tg := newTelegram(bot, chatID, &fakePositions{list: []*models.Position{samplePosition()}}, nil)
	tg.now = func() time.Time { return openedAt.Add(90 * time.Minute) }

	tg.handleUpdate(context.Background(), command(chatID, "/positions"))

	texts := bot.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "BTC-USDT [1h] qty=0.002 @ 50010 (100.02 USDT), 1h30m0s")
}

func TestTelegram_PositionsEmptyAndError(t *testing.T) {
	bot := newFakeBot()
	store := &fakePositions{}
	tg := newTelegram(bot, chatID, store, nil)

	tg.handleUpdate(context.Background(), command(chatID, "/positions"))
	store.err = errors.New("db down")
	tg.handleUpdate(context.Background(), command(chatID, "/positions"))

	assert.Equal(t, []string{"📭 No open positions", "❗️ Failed to load positions"}, bot.texts())
}

func TestTelegram_ToggleTrading(t *testing.T) {
	bot := newFakeBot()
	settings := &fakeSettings{data: map[string]string{}}
	tg := newTelegram(bot, chatID, nil, settings)

	tg.handleUpdate(context.Background(), command(chatID, "/enable"))
	assert.Equal(t, "true", settings.data[models.SettingTradingEnabled])

	tg.handleUpdate(context.Background(), command(chatID, "/disable"))
	assert.Equal(t, "false", settings.data[models.SettingTradingEnabled])

	texts := bot.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Trading: on")
	assert.Contains(t, texts[1], "Trading: off")
	assert.Contains(t, texts[1], "100 USDT")
}

func TestTelegram_IgnoresForeignChatAndPlainText(t *testing.T) {
	bot := newFakeBot()
	settings := &fakeSettings{data: map[string]string{}}
	tg := newTelegram(bot, chatID, nil, settings)

	tg.handleUpdate(context.Background(), command(7, "/enable"))
	tg.handleUpdate(context.Background(), tgbot.Update{Message: &tgbot.Message{Text: "hi", Chat: &tgbot.Chat{ID: chatID}}})
	tg.handleUpdate(context.Background(), tgbot.Update{})

	assert.Empty(t, bot.texts())
	assert.Empty(t, settings.data)
}

func TestTelegram_StartStop(t *testing.T) {
	bot := newFakeBot()
	tg := newTelegram(bot, chatID, &fakePositions{}, nil)

	require.NoError(t, tg.Start(context.Background()))
	bot.updates <- command(chatID, "/positions")

	assert.Eventually(t, func() bool { return len(bot.texts()) == 1 }, time.Second, 5*time.Millisecond)
	tg.Stop()
	assert.True(t, bot.stopped)
}

func TestPositionClosed(t *testing.T) {
	p := samplePosition()
	closedAt := openedAt.Add(2 * time.Hour)
	p.ClosedAt = &closedAt
	p.AvgSellPrice = decimal.NewNullDecimal(decimal.RequireFromString("51000"))

	msg := PositionClosed(p)
	assert.Contains(t, msg, "Closed BTC-USDT [1h]")
	assert.Contains(t, msg, "profit=1.98 USDT (1.98%)")
	assert.Contains(t, msg, "held 2h0m0s")
}

func TestPositionOpened(t *testing.T) {
	msg := PositionOpened(samplePosition())
	assert.Contains(t, msg, "Opened BTC-USDT [1h]")
	assert.Contains(t, msg, "qty=0.002 @ 50010")
	assert.Contains(t, msg, "notional=100.02 USDT")
}

func TestStdout(t *testing.T) {
	s := NewStdout()
	assert.True(t, s.Send(context.Background(), "x"))
	assert.True(t, s.Sendf(context.Background(), "%s", "y"))
}
