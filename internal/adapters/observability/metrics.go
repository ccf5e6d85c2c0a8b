package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "costafeed", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "costafeed", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	FeedFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "costafeed", Name: "feed_fetches_total", Help: "Outbound feed fetches."},
		[]string{"source", "outcome"}, // outcome: ok|error
	)
	FeedFetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "costafeed", Name: "feed_fetch_duration_seconds",
			Help:    "Feed fetch duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	FeedRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "costafeed", Name: "feed_records", Help: "Records kept from the last fetch per source."},
		[]string{"source"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "costafeed", Name: "cache_events_total", Help: "Snapshot cache events."},
		[]string{"event"}, // event: hit|stale|refresh|swap
	)
	// RefreshFailures is the one signal operations should alert on: a whole
	// refresh cycle produced zero records, so the site is serving stale or no
	// data.
	RefreshFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "costafeed", Name: "refresh_failures_total", Help: "Refresh cycles that produced no records."},
	)
)

// Serve starts a standalone metrics listener when METRICS_ADDR is set.
func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(InitRegistry()))

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
	reg.MustRegister(HTTPRequests, HTTPLatency, FeedFetches, FeedFetchLatency, FeedRecords, CacheEvents, RefreshFailures)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveFeedFetch(source, outcome string, dur time.Duration) {
	FeedFetches.WithLabelValues(source, outcome).Inc()
	FeedFetchLatency.WithLabelValues(source).Observe(dur.Seconds())
}

func SetFeedRecords(source string, n int) {
	FeedRecords.WithLabelValues(source).Set(float64(n))
}

func ObserveCache(event string) { // event: hit|stale|refresh|swap
	CacheEvents.WithLabelValues(event).Inc()
}

func IncRefreshFailure() { RefreshFailures.Inc() }
