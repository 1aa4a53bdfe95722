package runner

import (
	"errors"
	"fmt"
	"webhook_bot/internal/models"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrTradingDisabled      = errors.New("trading disabled")
	ErrPositionAlreadyOpen  = errors.New("position already open")
	ErrPositionNotFound     = errors.New("position not found")
	ErrUnfavorableExitPrice = errors.New("unfavorable exit price")
	ErrUpstream             = errors.New("exchange upstream error")
	ErrMalformedResponse    = errors.New("malformed exchange response")
	ErrStorage              = errors.New("storage error")
	ErrInvalidSettings      = errors.New("invalid settings")
	ErrBusy                 = errors.New("signal already in progress")
)

type kindInfo struct {
	reason string // уходит вызывающему в {"status": ...}
	code   string // метка метрики
}

var kinds = map[error]kindInfo{
	ErrInvalidInput:         {"Invalid data format", "invalid_input"},
	ErrTradingDisabled:      {"Trading disabled", "trading_disabled"},
	ErrPositionAlreadyOpen:  {"Position already exists", "position_already_open"},
	ErrPositionNotFound:     {"Position does not exist", "position_not_found"},
	ErrUnfavorableExitPrice: {"Unfavorable exit price", "unfavorable_exit_price"},
	ErrUpstream:             {"Exchange error", "upstream"},
	ErrMalformedResponse:    {"Malformed exchange response", "malformed_response"},
	ErrStorage:              {"Storage error", "storage"},
	ErrInvalidSettings:      {"Invalid settings", "invalid_settings"},
	ErrBusy:                 {"Signal already in progress", "busy"},
}

// Rejection: штатный отказ обработать сигнал. errors.Is работает
// и по Kind, и по исходной причине.
type Rejection struct {
	Kind       error
	Reason     string
	Instrument string
	Timeframe  string
	Side       models.Side
	Err        error
}

func (r *Rejection) Error() string {
	s := fmt.Sprintf("%s %s [%s]: %s", r.Side, r.Instrument, r.Timeframe, r.Reason)
	if r.Err != nil {
		s += ": " + r.Err.Error()
	}
	return s
}

func (r *Rejection) Unwrap() []error {
	if r.Err == nil {
		return []error{r.Kind}
	}
	return []error{r.Kind, r.Err}
}

func (r *Rejection) code() string { return kinds[r.Kind].code }

func reject(kind error, sig models.Signal, cause error) *Rejection {
	return &Rejection{
		Kind:       kind,
		Reason:     kinds[kind].reason,
		Instrument: sig.Instrument,
		Timeframe:  sig.Timeframe,
		Side:       sig.Side,
		Err:        cause,
	}
}

// ReasonOf: текст для ответа вебхука. Детали неизвестных ошибок наружу не отдаём.
func ReasonOf(err error) string {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return kinds[ErrUpstream].reason
}
