// Package metrics exposes Prometheus metrics for the hiring pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireloop_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hireloop_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireloop_submissions_total",
			Help: "Application submissions by outcome (created, duplicate, error)",
		},
		[]string{"result"},
	)

	screeningScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hireloop_screening_score",
			Help:    "Distribution of screening scores for created applications",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	stageTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireloop_stage_transitions_total",
			Help: "Pipeline stage transitions by from/to stage",
		},
		[]string{"from", "to"},
	)

	openApplications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hireloop_open_applications",
			Help: "Applications not yet in a terminal stage",
		},
	)

	expiredSlotsReaped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hireloop_expired_slots_reaped_total",
			Help: "Interview slots removed by the cleanup worker",
		},
	)

	pipelineStreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hireloop_pipeline_stream_clients",
			Help: "Connected pipeline websocket clients",
		},
	)
)

// ObserveHTTPRequest records one handled HTTP request.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveSubmission records a submission outcome.
func ObserveSubmission(result string) {
	submissionsTotal.WithLabelValues(result).Inc()
}

// ObserveScreeningScore records the score of a newly created application.
func ObserveScreeningScore(score int) {
	screeningScore.Observe(float64(score))
}

// ObserveStageTransition records a pipeline stage change.
func ObserveStageTransition(from, to string) {
	stageTransitionsTotal.WithLabelValues(from, to).Inc()
}

// SetOpenApplications updates the open-applications gauge.
func SetOpenApplications(count int) {
	openApplications.Set(float64(count))
}

// AddExpiredSlotsReaped counts slots removed by the cleanup worker.
func AddExpiredSlotsReaped(n int) {
	expiredSlotsReaped.Add(float64(n))
}

// IncStreamClients tracks a websocket client connecting.
func IncStreamClients() { pipelineStreamClients.Inc() }

// DecStreamClients tracks a websocket client disconnecting.
func DecStreamClients() { pipelineStreamClients.Dec() }
