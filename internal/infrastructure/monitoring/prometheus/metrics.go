// Package prometheus exposes the pipeline's operational metrics on a private
// registry, served via the standard /metrics handler.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Hamaduzi123/ip/internal/domain/records"
)

// Drop reasons used as the "reason" label of RecordsDropped.
const (
	ReasonNonEnglish = "non_english"
	ReasonMalformed  = "malformed"
	ReasonDuplicate  = "duplicate"
)

// Metrics holds every metric the pipeline and HTTP layer record. All metrics
// live on a private registry so tests can build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	// Pipeline
	RunsTotal         *prometheus.CounterVec
	RecordsIngested   *prometheus.CounterVec
	RecordsDropped    *prometheus.CounterVec
	RecordsNew        prometheus.Counter
	NamesStandardized prometheus.Counter
	MergeDuration     prometheus.Histogram
	DatasetSize       prometheus.Gauge

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all pipeline metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{registry: reg}

	m.RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ip", Subsystem: "pipeline",
		Name: "runs_total", Help: "Pipeline runs by source and outcome.",
	}, []string{"source", "status"})

	m.RecordsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ip", Subsystem: "pipeline",
		Name: "records_ingested_total", Help: "Raw records received per source.",
	}, []string{"source"})

	m.RecordsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ip", Subsystem: "pipeline",
		Name: "records_dropped_total", Help: "Records dropped during normalization and dedup.",
	}, []string{"reason"})

	m.RecordsNew = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ip", Subsystem: "pipeline",
		Name: "records_new_total", Help: "Truly-new records appended to the master dataset.",
	})

	m.NamesStandardized = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ip", Subsystem: "pipeline",
		Name: "names_standardized_total", Help: "Names mapped through the canonical table.",
	})

	m.MergeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ip", Subsystem: "pipeline",
		Name: "merge_duration_seconds", Help: "Wall time of one merge run.",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	m.DatasetSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ip", Subsystem: "pipeline",
		Name: "dataset_records", Help: "Rows currently in the master dataset.",
	})

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ip", Subsystem: "http",
		Name: "requests_total", Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ip", Subsystem: "http",
		Name: "request_duration_seconds", Help: "HTTP request duration.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	reg.MustRegister(
		m.RunsTotal, m.RecordsIngested, m.RecordsDropped,
		m.RecordsNew, m.NamesStandardized, m.MergeDuration, m.DatasetSize,
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveRun records the counters of one completed pipeline run.
func (m *Metrics) ObserveRun(source string, stats records.Stats, datasetSize int, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RunsTotal.WithLabelValues(source, status).Inc()
	m.RecordsIngested.WithLabelValues(source).Add(float64(stats.InputCount))
	m.RecordsDropped.WithLabelValues(ReasonNonEnglish).Add(float64(stats.NonEnglishRemoved))
	m.RecordsDropped.WithLabelValues(ReasonMalformed).Add(float64(stats.MalformedRemoved))
	m.RecordsDropped.WithLabelValues(ReasonDuplicate).Add(float64(stats.DuplicatesRemoved))
	m.RecordsNew.Add(float64(stats.NewAdded))
	m.NamesStandardized.Add(float64(stats.NamesStandardized))
	m.MergeDuration.Observe(elapsed.Seconds())
	if err == nil {
		m.DatasetSize.Set(float64(datasetSize))
	}
}
