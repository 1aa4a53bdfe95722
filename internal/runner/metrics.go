package runner

import (
	"errors"
	"webhook_bot/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var signalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "webhook_bot",
		Name:      "signals_total",
		Help:      "Webhook signals by side and outcome",
	},
	[]string{"side", "outcome"},
)

func observeSignal(side models.Side, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		var rej *Rejection
		if errors.As(err, &rej) {
			outcome = rej.code()
		}
	}
	s := string(side)
	if !side.Valid() {
		// мусор из тела запроса в метки не пускаем
		s = "invalid"
	}
	signalsTotal.WithLabelValues(s, outcome).Inc()
}
