package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	requestLatencySeconds *prometheus.HistogramVec
	errorsTotal           *prometheus.CounterVec
	batchFilesTotal       *prometheus.CounterVec
	batchLatencySeconds   prometheus.Histogram
	submissionsGraded     prometheus.Counter
	grievanceTransitions  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradex_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradex_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradex_errors_total",
			Help: "Total number of error responses returned.",
		}, []string{"method", "route", "status"})

		batchFilesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradex_batch_files_total",
			Help: "Answer-sheet files processed by batch ingestion, by outcome.",
		}, []string{"outcome"})

		batchLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gradex_batch_latency_seconds",
			Help:    "Latency distribution for whole batch ingestion calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		})

		submissionsGraded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradex_submissions_graded_total",
			Help: "Total number of grading actions applied to submissions.",
		})

		grievanceTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradex_grievance_transitions_total",
			Help: "Grievance state transitions applied, by action.",
		}, []string{"action"})

		prometheus.MustRegister(
			requestsTotal,
			requestLatencySeconds,
			errorsTotal,
			batchFilesTotal,
			batchLatencySeconds,
			submissionsGraded,
			grievanceTransitions,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the latency histogram for API requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// BatchFiles exposes the per-outcome counter for batch ingestion files.
func BatchFiles() *prometheus.CounterVec {
	RegisterMetrics()
	return batchFilesTotal
}

// BatchLatency exposes the whole-batch latency histogram.
func BatchLatency() prometheus.Histogram {
	RegisterMetrics()
	return batchLatencySeconds
}

// SubmissionsGraded exposes the grading action counter.
func SubmissionsGraded() prometheus.Counter {
	RegisterMetrics()
	return submissionsGraded
}

// GrievanceTransitions exposes the per-action grievance transition counter.
func GrievanceTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return grievanceTransitions
}
