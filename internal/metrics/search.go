package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and intent Prometheus metrics.
var (
	IntentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealradar",
			Name:      "intent_requests_total",
			Help:      "Total number of intent resolution requests",
		},
		[]string{"model", "status"},
	)

	IntentRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mealradar",
			Name:      "intent_request_duration_seconds",
			Help:      "Intent resolution request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	SearchCandidatesFetched = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mealradar",
			Name:      "search_candidates_fetched",
			Help:      "Restaurant candidates fetched per geo search",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	ConfigCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealradar",
			Name:      "config_cache_total",
			Help:      "Runtime config cache lookups by outcome",
		},
		[]string{"result"}, // "hit" / "reload" / "stale"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(IntentRequestsTotal)
	prometheus.MustRegister(IntentRequestDuration)
	prometheus.MustRegister(SearchCandidatesFetched)
	prometheus.MustRegister(ConfigCacheTotal)
	searchMetricsRegistered = true
}
