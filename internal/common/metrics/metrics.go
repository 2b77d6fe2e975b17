// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_gate_decisions_total",
			Help: "Section gate evaluations by outcome",
		},
		[]string{"section", "can_proceed"},
	)

	CoverageMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_coverage_matches_total",
			Help: "Artifact coverage evaluations by outcome",
		},
		[]string{"artifact", "matched"},
	)

	PartnerRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_partner_recommendations_total",
			Help: "Partner recommendation lookups by outcome",
		},
		[]string{"specialty", "found"},
	)

	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_fallbacks_total",
			Help: "Default fallbacks taken for unknown sections, artifacts, items and specialties",
		},
		[]string{"kind"},
	)
)

// Fallback kinds.
const (
	FallbackSection   = "section"
	FallbackItem      = "item"
	FallbackArtifact  = "artifact"
	FallbackSpecialty = "specialty"
	FallbackCandidate = "candidate"
)

func RecordGateDecision(section string, canProceed bool) {
	GateDecisions.WithLabelValues(section, strconv.FormatBool(canProceed)).Inc()
}

func RecordCoverageMatch(artifact string, matched bool) {
	CoverageMatches.WithLabelValues(artifact, strconv.FormatBool(matched)).Inc()
}

func RecordRecommendation(specialty string, found bool) {
	PartnerRecommendations.WithLabelValues(specialty, strconv.FormatBool(found)).Inc()
}

func RecordFallback(kind string) {
	Fallbacks.WithLabelValues(kind).Inc()
}
