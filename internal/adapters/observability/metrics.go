package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "appinsight", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "appinsight", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "appinsight", Name: "external_requests_total", Help: "Outbound relay requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "appinsight", Name: "external_request_duration_seconds",
			Help:    "Outbound relay request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	RelayFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "appinsight", Name: "relay_failures_total", Help: "Relay strategies that yielded no usable data."},
		[]string{"strategy", "reason"}, // reason: transport|status|decode|empty|breaker|limiter|unknown
	)
	RelayExhausted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "appinsight", Name: "relay_exhausted_total", Help: "Requests for which every relay strategy failed."},
	)
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "appinsight", Name: "relay_breaker_state", Help: "Circuit breaker state per relay (0 closed, 1 half-open, 2 open)."},
		[]string{"strategy"},
	)
	Acquisitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "appinsight", Name: "acquisitions_total", Help: "App acquisitions by outcome."},
		[]string{"platform", "outcome"}, // outcome: ok|empty|not_found|failed
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "appinsight", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del|skip
	)
)

// Serve exposes reg on a separate listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
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
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency,
		RelayFailures, RelayExhausted, BreakerState, Acquisitions, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound call; status 0 means the request never
// got a response.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveRelayFailure(strategy, reason string) {
	RelayFailures.WithLabelValues(strategy, reason).Inc()
}

func ObserveBreaker(strategy string, state float64) {
	BreakerState.WithLabelValues(strategy).Set(state)
}

func ObserveAcquisition(platform, outcome string) {
	Acquisitions.WithLabelValues(platform, outcome).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del|skip
	CacheEvents.WithLabelValues(cache, event).Inc()
}
