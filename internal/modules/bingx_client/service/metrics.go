package service

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "webhook_bot",
		Subsystem: "bingx",
		Name:      "request_duration_seconds",
		Help:      "Latency of signed BingX REST calls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	},
	[]string{"endpoint", "result"},
)

func observeRequest(endpoint string, started time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrMalformedResponse):
		result = "malformed"
	case err != nil:
		result = "upstream_error"
	}
	requestDuration.WithLabelValues(endpoint, result).Observe(time.Since(started).Seconds())
}
