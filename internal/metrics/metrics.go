package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cs_quiz",
		Name:      "sessions_started_total",
		Help:      "Total number of quiz sessions started",
	})

	sessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cs_quiz",
		Name:      "sessions_completed_total",
		Help:      "Total number of quiz sessions that reached the final score",
	})

	answers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cs_quiz",
		Name:      "answers_total",
		Help:      "Resolved questions by outcome",
	}, []string{"outcome"})

	historyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cs_quiz",
		Name:      "history_write_failures_total",
		Help:      "History appends that failed and were ignored",
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cs_quiz",
		Name:      "active_sessions",
		Help:      "Sessions currently owned by websocket connections",
	})
)

func SessionStarted()       { sessionsStarted.Inc() }
func SessionCompleted()     { sessionsCompleted.Inc() }
func HistoryWriteFailed()   { historyFailures.Inc() }
func ConnectionOpened()     { activeSessions.Inc() }
func ConnectionClosed()     { activeSessions.Dec() }
func Answer(outcome string) { answers.WithLabelValues(outcome).Inc() }

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
