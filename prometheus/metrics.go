// Package prometheus instruments parsing and fetching with Prometheus metrics.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric label values for the status label.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the collectors shared by the instrumented parser and fetcher.
type Metrics struct {
	ParsesTotal   *prometheus.CounterVec
	ParseDuration *prometheus.HistogramVec
	FieldAbsent   *prometheus.CounterVec
	ResultLinks   prometheus.Histogram

	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewRegistry returns a registry with the Go runtime and process collectors
// already registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New registers the serp collectors with reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ParsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "serp_parse_total",
				Help: "Total number of results pages parsed",
			},
			[]string{"engine", "status"},
		),
		ParseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "serp_parse_duration_seconds",
				Help:    "Results page parse duration in seconds",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
			},
			[]string{"engine"},
		),
		FieldAbsent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "serp_field_absent_total",
				Help: "Total number of parsed pages missing an optional field",
			},
			[]string{"field"},
		),
		ResultLinks: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "serp_result_links",
				Help:    "Number of result links per parsed page",
				Buckets: []float64{1, 5, 10, 20, 50, 100},
			},
		),
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "serp_fetch_total",
				Help: "Total number of results pages fetched",
			},
			[]string{"status"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "serp_fetch_duration_seconds",
				Help:    "Results page fetch duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
		),
		gatherer: reg,
	}
}

// Handler serves the metrics registered with m in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
