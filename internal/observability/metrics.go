package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bobmcallan/agripulse/internal/models"
)

// Collector bundles the service's Prometheus metrics. It satisfies
// cache.Recorder and feeds.Recorder so both can report into it directly.
type Collector struct {
	gatherer prometheus.Gatherer

	FetchTotal    *prometheus.CounterVec
	CacheRequests *prometheus.CounterVec
	FeedStatus    *prometheus.GaugeVec
	Pulses        *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
}

// NewCollector registers metrics against reg, defaulting to the global
// registry when nil. Registering twice against the same registry reuses the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	fetches, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agripulse_fetch_total",
		Help: "Feed fetches, labeled by feed and whether live or mock data was returned.",
	}, []string{"feed", "source"}), "agripulse_fetch_total")
	if err != nil {
		return nil, err
	}

	cacheReqs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agripulse_cache_requests_total",
		Help: "Cache lookups, labeled by key and result (hit, miss, stale, error).",
	}, []string{"key", "result"}), "agripulse_cache_requests_total")
	if err != nil {
		return nil, err
	}

	status, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agripulse_feed_status",
		Help: "Current feed status: 0 opportunity, 1 watch, 2 threat.",
	}, []string{"feed"}), "agripulse_feed_status")
	if err != nil {
		return nil, err
	}

	pulses, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agripulse_pulses_total",
		Help: "Pulses emitted, labeled by kind.",
	}, []string{"kind"}), "agripulse_pulses_total")
	if err != nil {
		return nil, err
	}

	httpReqs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agripulse_http_requests_total",
		Help: "HTTP requests served, labeled by method and status code.",
	}, []string{"method", "code"}), "agripulse_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agripulse_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method"}), "agripulse_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		FetchTotal:    fetches,
		CacheRequests: cacheReqs,
		FeedStatus:    status,
		Pulses:        pulses,
		HTTPRequests:  httpReqs,
		HTTPDurations: durations,
	}, nil
}

// FetchResult counts one fetch.
func (c *Collector) FetchResult(feed models.FeedType, source models.Source) {
	if c == nil {
		return
	}
	c.FetchTotal.WithLabelValues(string(feed), string(source)).Inc()
}

// CacheResult counts one cache lookup.
func (c *Collector) CacheResult(key, result string) {
	if c == nil {
		return
	}
	c.CacheRequests.WithLabelValues(key, result).Inc()
}

// SetFeedStatus records the current status of a feed.
func (c *Collector) SetFeedStatus(feed models.FeedType, status models.Status) {
	if c == nil {
		return
	}
	c.FeedStatus.WithLabelValues(string(feed)).Set(float64(status.Level()))
}

// PulseCreated counts one emitted pulse.
func (c *Collector) PulseCreated(kind models.PulseKind) {
	if c == nil {
		return
	}
	c.Pulses.WithLabelValues(string(kind)).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		c.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		c.HTTPDurations.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
