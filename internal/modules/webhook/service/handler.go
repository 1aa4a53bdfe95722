package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
	"webhook_bot/internal/models"
	"webhook_bot/internal/runner"
	"webhook_bot/pkg/logger"

	"github.com/bytedance/sonic"
)

const (
	// тело TradingView-алерта: одна строка, с запасом
	maxBodySize = 4 << 10

	invalidFormat = "Invalid data format"
)

type SignalHandler interface {
	HandleSignal(ctx context.Context, sig models.Signal) (*runner.Outcome, error)
}

// SignalRecorder: кому сообщить о принятом сигнале (health).
type SignalRecorder interface {
	TouchSignal(t time.Time)
}

type statusResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	signals  SignalHandler
	recorder SignalRecorder
	budget   time.Duration
}

// NewHandler: budget ограничивает обработку одного сигнала целиком, вместе с ожиданием лока.
func NewHandler(signals SignalHandler, recorder SignalRecorder, budget time.Duration) *Handler {
	return &Handler{signals: signals, recorder: recorder, budget: budget}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("webhook body exceeds %d bytes", tooLarge.Limit)
		}
		writeStatus(w, http.StatusBadRequest, invalidFormat)
		return
	}
	logger.Info("webhook received: %q", body)

	sig, err := models.ParseSignal(body)
	if err != nil {
		logger.Warn("invalid data format: %q - %v", body, err)
		writeStatus(w, http.StatusBadRequest, invalidFormat)
		return
	}
	if h.recorder != nil {
		h.recorder.TouchSignal(sig.ReceivedAt)
	}

	// обрыв соединения не должен прерывать сделку на полпути
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.budget)
	defer cancel()

	if _, err := h.signals.HandleSignal(ctx, sig); err != nil {
		writeStatus(w, http.StatusBadRequest, runner.ReasonOf(err))
		return
	}
	writeStatus(w, http.StatusOK, "success")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	data, err := sonic.Marshal(statusResponse{Status: status})
	if err != nil {
		http.Error(w, status, code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}
