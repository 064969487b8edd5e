package viewer

import (
	"net/http"
	"strconv"
	"time"

	"github.com/FAU-CDI/kdict/internal/dictionary"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects prometheus metrics about requests and the served dictionary.
// A nil Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	results  prometheus.Histogram
}

// NewMetrics creates a new set of metrics in a fresh registry.
func NewMetrics(holder *dictionary.Holder) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kdict",
			Name:      "http_requests_total",
			Help:      "Number of http requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kdict",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of http requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kdict",
			Name:      "search_results",
			Help:      "Number of records returned per search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 50, 100},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.results,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "kdict",
			Name:      "records",
			Help:      "Number of records in the current dictionary.",
		}, func() float64 {
			dict := holder.Get()
			if dict == nil {
				return 0
			}
			return float64(dict.Len())
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "kdict",
			Name:      "reloads_total",
			Help:      "Number of dictionaries published.",
		}, func() float64 {
			return float64(holder.Reloads())
		}),
	)
	return m
}

// Handler serves the metrics in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records the number of results of a single search.
func (m *Metrics) ObserveSearch(results int) {
	if m == nil {
		return
	}
	m.results.Observe(float64(results))
}

// Middleware records the status code and duration of each request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		recorder := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(recorder.code)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}
