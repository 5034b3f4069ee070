// Package metrics exposes Prometheus instrumentation for the valuation
// engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder handles metrics recording and exposure
type Recorder struct {
	// API metrics
	apiRequestCounter   *prometheus.CounterVec
	apiLatencyHistogram *prometheus.HistogramVec

	// Valuation metrics
	valuationCounter    *prometheus.CounterVec
	degradedLookups     *prometheus.CounterVec
	optimizerRunLatency prometheus.Histogram

	// Simulation metrics
	simulationLatency *prometheus.HistogramVec
	strategyPnLGauge  *prometheus.GaugeVec
	varGauge          *prometheus.GaugeVec

	// Option metrics
	optionsExercised prometheus.Gauge
}

// NewRecorder creates and registers all engine metrics
func NewRecorder() *Recorder {
	return &Recorder{
		apiRequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lng_api_requests_total",
				Help: "The total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		apiLatencyHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lng_api_latency_seconds",
				Help:    "API request latency distribution",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
			},
			[]string{"method", "path"},
		),
		valuationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lng_cargo_valuations_total",
				Help: "The total number of cargo valuations performed",
			},
			[]string{"destination"},
		),
		degradedLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lng_degraded_forecast_lookups_total",
				Help: "Forecast lookups that carried an earlier value forward",
			},
			[]string{"commodity"},
		),
		optimizerRunLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lng_optimizer_run_seconds",
				Help:    "Strategy optimization run duration",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		simulationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lng_simulation_seconds",
				Help:    "Monte Carlo simulation duration",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"strategy"},
		),
		strategyPnLGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lng_strategy_expected_pnl_dollars",
				Help: "Total expected P&L of the latest strategy run",
			},
			[]string{"strategy"},
		),
		varGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lng_strategy_var5_dollars",
				Help: "5% Value-at-Risk of the latest simulated distribution",
			},
			[]string{"strategy"},
		),
		optionsExercised: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lng_options_exercised",
				Help: "Optional cargoes marked for exercise in the latest analysis",
			},
		),
	}
}

// RecordAPIRequest records one served API request
func (r *Recorder) RecordAPIRequest(method, path string, status int, latency time.Duration) {
	r.apiRequestCounter.WithLabelValues(method, path, statusLabel(status)).Inc()
	r.apiLatencyHistogram.WithLabelValues(method, path).Observe(latency.Seconds())
}

// RecordValuation counts one cargo valuation
func (r *Recorder) RecordValuation(destination string) {
	r.valuationCounter.WithLabelValues(destination).Inc()
}

// ValuationCount returns the counter tracking valuations for a destination
func (r *Recorder) ValuationCount(destination string) prometheus.Counter {
	return r.valuationCounter.WithLabelValues(destination)
}

// RecordDegradedLookup counts a carried-forward forecast lookup
func (r *Recorder) RecordDegradedLookup(commodity string) {
	r.degradedLookups.WithLabelValues(commodity).Inc()
}

// RecordOptimizerRun records an optimization run duration and outcome
func (r *Recorder) RecordOptimizerRun(strategy string, totalPnL float64, latency time.Duration) {
	r.optimizerRunLatency.Observe(latency.Seconds())
	r.strategyPnLGauge.WithLabelValues(strategy).Set(totalPnL)
}

// RecordSimulation records a Monte Carlo run
func (r *Recorder) RecordSimulation(strategy string, var5 float64, latency time.Duration) {
	r.simulationLatency.WithLabelValues(strategy).Observe(latency.Seconds())
	r.varGauge.WithLabelValues(strategy).Set(var5)
}

// RecordOptionsExercised records the size of the exercised option set
func (r *Recorder) RecordOptionsExercised(count int) {
	r.optionsExercised.Set(float64(count))
}

func statusLabel(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
