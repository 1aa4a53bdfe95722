package models

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	"webhook_bot/internal/helper"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

var ErrInvalidSignal = errors.New("invalid signal")

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Valid() bool { return s == SideBuy || s == SideSell }

type OrderType string

const (
	OrderMarket OrderType = "MARKET"
	OrderLimit  OrderType = "LIMIT"
)

type PositionSide string

const PositionLong PositionSide = "LONG"

// Environment выбирает контур биржи: боевой или демо.
type Environment string

const (
	EnvLive Environment = "live"
	EnvDemo Environment = "demo"
)

func ParseEnvironment(raw string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "0", "live", "no":
		return EnvLive, nil
	case "true", "1", "demo", "yes":
		return EnvDemo, nil
	default:
		return "", fmt.Errorf("%w: environment flag %q", ErrInvalidSignal, raw)
	}
}

// Signal: одно входящее событие вебхука.
type Signal struct {
	RequestID   string
	Instrument  string
	Side        Side
	Timeframe   string
	Environment Environment
	ReceivedAt  time.Time
}

type signalJSON struct {
	Instrument string `json:"instrument"`
	Ticker     string `json:"ticker"`
	Side       string `json:"side"`
	Timeframe  string `json:"timeframe"`
	Demo       any    `json:"demo"`
}

// ParseSignal разбирает тело вебхука: либо "BTC-USDT,BUY,1h,false",
// либо JSON-объект с теми же полями.
func ParseSignal(body []byte) (Signal, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Signal{}, fmt.Errorf("%w: empty body", ErrInvalidSignal)
	}

	var instrument, side, timeframe, demo string
	if body[0] == '{' {
		var raw signalJSON
		if err := sonic.Unmarshal(body, &raw); err != nil {
			return Signal{}, fmt.Errorf("%w: %v", ErrInvalidSignal, err)
		}
		instrument = raw.Instrument
		if instrument == "" {
			instrument = raw.Ticker
		}
		side, timeframe = raw.Side, raw.Timeframe
		if raw.Demo != nil {
			demo = fmt.Sprint(raw.Demo)
		}
	} else {
		parts := strings.Split(string(body), ",")
		if len(parts) != 4 {
			return Signal{}, fmt.Errorf("%w: want 4 comma separated fields, got %d", ErrInvalidSignal, len(parts))
		}
		instrument, side, timeframe, demo = parts[0], parts[1], parts[2], parts[3]
	}

	env, err := ParseEnvironment(demo)
	if err != nil {
		return Signal{}, err
	}

	sig := Signal{
		RequestID:   uuid.NewString(),
		Instrument:  strings.ToUpper(strings.TrimSpace(instrument)),
		Side:        Side(strings.ToUpper(strings.TrimSpace(side))),
		Timeframe:   helper.NormTF(timeframe),
		Environment: env,
		ReceivedAt:  time.Now(),
	}
	if err := sig.Validate(); err != nil {
		return Signal{}, err
	}
	return sig, nil
}

func (s Signal) Validate() error {
	switch {
	case s.Instrument == "":
		return fmt.Errorf("%w: empty instrument", ErrInvalidSignal)
	case s.Timeframe == "":
		return fmt.Errorf("%w: empty timeframe", ErrInvalidSignal)
	case !s.Side.Valid():
		return fmt.Errorf("%w: side %q", ErrInvalidSignal, s.Side)
	case s.Environment != EnvLive && s.Environment != EnvDemo:
		return fmt.Errorf("%w: environment %q", ErrInvalidSignal, s.Environment)
	}
	return nil
}

func (s Signal) String() string {
	return fmt.Sprintf("%s %s %s [%s]", s.Side, s.Instrument, s.Timeframe, s.Environment)
}
