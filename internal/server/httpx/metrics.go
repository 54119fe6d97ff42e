package httpx

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// initMetrics registers on a per-server registry so several servers (tests)
// can coexist in one process.
func (s *HTTPServer) initMetrics() {
	s.registry = prometheus.NewRegistry()

	s.requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gophauth",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"})

	s.requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gophauth",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "route", "status"})

	s.registry.MustRegister(
		s.requestTotal,
		s.requestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func (s *HTTPServer) recordRequestMetrics(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	s.requestTotal.With(labels).Inc()
	s.requestLatency.With(labels).Observe(duration.Seconds())
}
