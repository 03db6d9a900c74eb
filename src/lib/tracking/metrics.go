package tracking

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/relaypoint-io/relaypoint/src/lib/slog"
	"go.uber.org/zap"
)

var (
	// RTHistogram tracks HTTP response times.
	RTHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "relaypoint",
			Subsystem: "api",
			Name:      "response_time_ms",
			Help:      "HTTP response time in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"method", "status_code"},
	)

	// ExtensionConfigurations counts extension configuration attempts by outcome.
	ExtensionConfigurations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relaypoint",
			Name:      "extension_configuration_total",
			Help:      "Extension configuration requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
)

// RecordResponseTime records the response time for a request.
func RecordResponseTime(r *http.Request, status int, duration time.Duration) {
	RTHistogram.WithLabelValues(methodLabel(r.Method), statusLabel(status)).Observe(float64(duration.Milliseconds()))
}

// RecordExtensionConfiguration increments the configuration counter.
func RecordExtensionConfiguration(provider, outcome string) {
	ExtensionConfigurations.WithLabelValues(provider, outcome).Inc()
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet:
		return http.MethodGet
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return http.MethodPost
	default:
		return "OTHER"
	}
}

func statusLabel(status int) string {
	if status == 0 {
		status = http.StatusOK
	}

	if status == http.StatusOK || status == http.StatusNotModified {
		return strconv.Itoa(status)
	}

	switch status / 100 {
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	}

	slog.Debug(slog.LogOpts{
		Msg:     "metrics unknown status code",
		Level:   slog.DL3,
		Payload: []zap.Field{zap.Int("status_code", status)},
	})

	return "other"
}
