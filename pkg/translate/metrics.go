package translate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector records provider metrics on a private registry so a
// short-lived process can dump them to a node-exporter textfile on exit.
type MetricsCollector struct {
	engine   string
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestSize     *prometheus.HistogramVec
	responseSize    *prometheus.HistogramVec
	detectionsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a collector labelled with the engine name.
func NewMetricsCollector(engine string) *MetricsCollector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &MetricsCollector{
		engine:   engine,
		registry: reg,

		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gtc_translation_requests_total",
				Help: "Total number of translation requests",
			},
			[]string{"engine", "status"},
		),

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gtc_translation_request_duration_seconds",
				Help:    "Duration of translation requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"engine", "status"},
		),

		requestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gtc_translation_request_size_bytes",
				Help:    "Size of translation request text in bytes",
				Buckets: []float64{10, 50, 100, 500, 1000, 5000},
			},
			[]string{"engine"},
		),

		responseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gtc_translation_response_size_bytes",
				Help:    "Size of translation response body in bytes",
				Buckets: []float64{100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"engine"},
		),

		detectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gtc_language_detections_total",
				Help: "Source language detections by method",
			},
			[]string{"engine", "method"},
		),
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// RecordTranslationRequest records metrics for a translation request.
// err is the error returned to the caller, nil on success.
func (mc *MetricsCollector) RecordTranslationRequest(duration time.Duration, err error, requestSize, responseSize int) {
	status := statusLabel(err)

	mc.requestsTotal.WithLabelValues(mc.engine, status).Inc()
	mc.requestDuration.WithLabelValues(mc.engine, status).Observe(duration.Seconds())
	mc.requestSize.WithLabelValues(mc.engine).Observe(float64(requestSize))
	if responseSize > 0 {
		mc.responseSize.WithLabelValues(mc.engine).Observe(float64(responseSize))
	}
}

// RecordDetection records how the source language was detected.
func (mc *MetricsCollector) RecordDetection(method string) {
	if method == "" {
		method = "none"
	}
	mc.detectionsTotal.WithLabelValues(mc.engine, method).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (mc *MetricsCollector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, mc.registry)
}
