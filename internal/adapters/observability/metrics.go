package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "loyalty_quiz", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loyalty_quiz", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "loyalty_quiz", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loyalty_quiz", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	SessionEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "loyalty_quiz", Name: "session_events_total", Help: "Session store hits/misses/saves/deletes."},
		[]string{"store", "event"}, // event: hit|miss|save|del
	)
	QuizAnswers = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "loyalty_quiz", Name: "answers_total", Help: "Quiz answers by dimension and outcome."},
		[]string{"dimension", "outcome"}, // outcome: accepted|reprompt
	)
	QuizCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "loyalty_quiz", Name: "completions_total", Help: "Finished quizzes."},
	)
	TopPrograms = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "loyalty_quiz", Name: "top_program_total", Help: "Programs ranked first in a final result."},
		[]string{"program"},
	)
	DatasetRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "loyalty_quiz", Name: "dataset_records", Help: "Hotel records loaded."},
	)
)

// Serve exposes reg on its own listener; an empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, SessionEvents,
		QuizAnswers, QuizCompletions, TopPrograms, DatasetRecords)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveSession(store, event string) { // event: hit|miss|save|del
	SessionEvents.WithLabelValues(store, event).Inc()
}

func ObserveAnswer(dimension, outcome string) {
	QuizAnswers.WithLabelValues(dimension, outcome).Inc()
}

// ObserveCompletion records a finished quiz and the program it ranked first.
func ObserveCompletion(topProgram string) {
	QuizCompletions.Inc()
	if topProgram != "" {
		TopPrograms.WithLabelValues(topProgram).Inc()
	}
}
