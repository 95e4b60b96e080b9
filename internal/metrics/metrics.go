package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the reporting endpoints and the stats cache
var (
	ReportQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_queries_total",
			Help: "Total number of stats report queries, by preset",
		},
		[]string{"preset"},
	)

	StatsCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_cache_hits_total",
			Help: "Total number of stats cache hits",
		},
	)

	StatsCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_cache_misses_total",
			Help: "Total number of stats cache misses",
		},
	)

	DeliveriesListedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deliveries_listed_total",
			Help: "Total number of deliveries returned by listing queries",
		},
	)

	ReportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_duration_seconds",
			Help:    "Duration of stats report computation",
			Buckets: prometheus.DefBuckets,
		},
	)

	GroupReportsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "group_reports_sent_total",
			Help: "Total number of period reports pushed to WhatsApp groups",
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(ReportQueriesTotal)
	prometheus.MustRegister(StatsCacheHitsTotal)
	prometheus.MustRegister(StatsCacheMissesTotal)
	prometheus.MustRegister(DeliveriesListedTotal)
	prometheus.MustRegister(ReportDuration)
	prometheus.MustRegister(GroupReportsSentTotal)
}
