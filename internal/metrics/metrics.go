package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketevents"

// Fetch outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
	OutcomeMalformed      = "malformed"
)

var (
	fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_total",
		Help:      "Market events API calls by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of market events API calls",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	fetchedEvents = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fetched_events",
		Help:      "Number of events returned by the last successful call",
	}, []string{"endpoint"})

	renderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "render_total",
		Help:      "Renders into document containers by view and result",
	}, []string{"view", "result"})

	notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "High impact notifications by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(fetchTotal, fetchDuration, fetchedEvents, renderTotal, notificationsTotal)
}

func ObserveFetch(endpoint string, outcome string, elapsed time.Duration, events int) {
	fetchTotal.WithLabelValues(endpoint, outcome).Inc()
	fetchDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		fetchedEvents.WithLabelValues(endpoint).Set(float64(events))
	}
}

// ObserveRender records a render; result is "ok", "skipped" or "error".
func ObserveRender(view string, result string) {
	renderTotal.WithLabelValues(view, result).Inc()
}

func ObserveNotification(outcome string) {
	notificationsTotal.WithLabelValues(outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
