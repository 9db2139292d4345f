package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "acrostic"

// PrometheusHooks implements PipelineHooks, CacheHooks and HTTPHooks with
// Prometheus metrics on a private registry.
type PrometheusHooks struct {
	reg *prom.Registry

	arrangeDuration *prom.HistogramVec
	arrangeResults  *prom.CounterVec
	attempts        *prom.CounterVec
	states          prom.Histogram
	inputWords      prom.Histogram
	cacheEvents     *prom.CounterVec
	cacheBytes      prom.Counter
	httpRequests    *prom.CounterVec
	httpDuration    *prom.HistogramVec
	httpInFlight    prom.Gauge
}

// NewPrometheusHooks registers the acrostic metrics on reg. A nil registry
// gets a fresh one.
func NewPrometheusHooks(reg *prom.Registry) *PrometheusHooks {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	p := &PrometheusHooks{reg: reg}

	p.arrangeDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "arrange_duration_seconds",
		Help:      "Duration of layout runs, cache misses only",
		Buckets:   prom.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"result"})
	p.arrangeResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "arrange_results_total",
		Help:      "Layout runs by outcome",
	}, []string{"result"})
	p.attempts = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "cap_attempts_total",
		Help:      "Optimizer passes by cap and feasibility",
	}, []string{"cap", "feasible"})
	p.states = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "attempt_states",
		Help:      "Optimizer states evaluated per cap attempt",
		Buckets:   prom.ExponentialBuckets(1, 4, 10),
	})
	p.inputWords = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "input_words",
		Help:      "Normalized word count of arranged lyrics",
		Buckets:   prom.ExponentialBuckets(1, 2, 14),
	})
	p.cacheEvents = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "cache_events_total",
		Help:      "Cache lookups and writes by key type and event",
	}, []string{"key_type", "event"})
	p.cacheBytes = prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "cache_written_bytes_total",
		Help:      "Bytes written to the cache",
	})
	p.httpRequests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	p.httpDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prom.DefBuckets,
	}, []string{"method", "route"})
	p.httpInFlight = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served",
	})

	reg.MustRegister(p.arrangeDuration, p.arrangeResults, p.attempts, p.states, p.inputWords,
		p.cacheEvents, p.cacheBytes, p.httpRequests, p.httpDuration, p.httpInFlight)
	return p
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusHooks) Registry() *prom.Registry {
	return p.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusHooks) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *PrometheusHooks) OnArrangeStart(_ context.Context, words, _ int) {
	p.inputWords.Observe(float64(words))
}

func (p *PrometheusHooks) OnAttempt(_ context.Context, lineCap int, feasible bool, states int) {
	p.attempts.WithLabelValues(strconv.Itoa(lineCap), strconv.FormatBool(feasible)).Inc()
	p.states.Observe(float64(states))
}

func (p *PrometheusHooks) OnArrangeComplete(_ context.Context, _ int, d time.Duration, err error) {
	res := "success"
	if err != nil {
		res = "failed"
	}
	p.arrangeDuration.WithLabelValues(res).Observe(d.Seconds())
	p.arrangeResults.WithLabelValues(res).Inc()
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {
	p.httpInFlight.Inc()
}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.httpInFlight.Dec()
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
