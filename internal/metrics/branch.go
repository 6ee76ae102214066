package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/triage/internal/domain/outcome"
)

// Aggregation Prometheus metrics.
var (
	BranchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "branch_outcomes_total",
			Help:      "Settled branches by branch name and outcome",
		},
		[]string{"branch", "outcome"},
	)

	BranchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Name:      "branch_duration_seconds",
			Help:      "Time until a branch settled (completed, timed out or failed)",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"branch"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "analyses_total",
			Help:      "Analyses by query mode and status",
		},
		[]string{"mode", "status"}, // status: "ok" / "timeout" / "cancelled"
	)

	AnalysisConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Name:      "analysis_confidence",
			Help:      "Confidence score of completed analyses",
			Buckets:   []float64{0.4, 0.55, 0.7, 0.85, 0.9},
		},
	)
)

// ObserveBranch records how a branch settled.
func ObserveBranch(branch string, o outcome.Outcome) {
	BranchOutcomesTotal.WithLabelValues(branch, string(o.Kind())).Inc()
	BranchDuration.WithLabelValues(branch).Observe(o.Duration().Seconds())
}
