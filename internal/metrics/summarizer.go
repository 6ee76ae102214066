package metrics

import "github.com/prometheus/client_golang/prometheus"

// Summarizer Prometheus metrics.
var (
	SummarizerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "summarizer_requests_total",
			Help:      "Total number of summarizer requests",
		},
		[]string{"model", "status"},
	)

	SummarizerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Name:      "summarizer_request_duration_seconds",
			Help:      "Summarizer request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"model"},
	)

	SummarizerTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "summarizer_tokens_total",
			Help:      "Total summarizer tokens consumed",
		},
		[]string{"model", "type"},
	)

	SummarizerBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "triage",
			Name:      "summarizer_budget_tokens_remaining",
			Help:      "Remaining summarizer token budget",
		},
		[]string{"period"},
	)
)

var registered bool

// Register registers the aggregation and summarizer metrics. Must be called once from main.
// HTTP metrics register themselves.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(BranchOutcomesTotal)
	prometheus.MustRegister(BranchDuration)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(AnalysisConfidence)
	prometheus.MustRegister(SummarizerRequestsTotal)
	prometheus.MustRegister(SummarizerRequestDuration)
	prometheus.MustRegister(SummarizerTokensTotal)
	prometheus.MustRegister(SummarizerBudgetTokensRemaining)
	registered = true
}
