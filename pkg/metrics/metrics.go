// Package metrics exposes Prometheus instrumentation for loads, renders and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load outcomes.
const (
	OutcomeRendered   = "rendered"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
)

// OtherLanguage labels loads of codes outside the configured language list.
const OtherLanguage = "other"

// Recorder owns a private registry so independent instances never collide.
type Recorder struct {
	languages       map[string]struct{}
	registry        *prometheus.Registry
	loadsTotal      *prometheus.CounterVec
	loadDuration    *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its collectors registered. Only the given
// languages get their own label value; any other code is counted as OtherLanguage.
func NewRecorder(languages ...string) (r *Recorder) {
	known := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		known[lang] = struct{}{}
	}

	r = &Recorder{
		languages: known,
		registry: prometheus.NewRegistry(),
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_loads_total",
				Help: "Total number of load-and-render cycles by language and outcome",
			},
			[]string{"language", "outcome"},
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_load_duration_seconds",
				Help:    "Duration of load-and-render cycles in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),
	}

	r.registry.MustRegister(
		r.loadsTotal,
		r.loadDuration,
		r.requestsTotal,
		r.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveLoad records one load-and-render cycle. A nil Recorder is a no-op.
func (r *Recorder) ObserveLoad(language, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.loadsTotal.WithLabelValues(r.languageLabel(language), outcome).Inc()
	r.loadDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// languageLabel keeps the label set bounded; language codes arrive unvalidated.
func (r *Recorder) languageLabel(language string) (label string) {
	if _, ok := r.languages[language]; ok {
		label = language
		return label
	}
	label = OtherLanguage
	return label
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() (h http.Handler) {
	h = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return h
}

// Middleware records request counts and durations.
func (r *Recorder) Middleware() (mw gin.HandlerFunc) {
	mw = func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		method := c.Request.Method

		if endpoint == "" {
			endpoint = "not_found"
		}

		r.requestsTotal.WithLabelValues(method, endpoint, status).Inc()
		r.requestDuration.WithLabelValues(method, endpoint, status).Observe(duration)
	}
	return mw
}
