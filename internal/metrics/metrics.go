// Package metrics defines the Prometheus collectors exported by the console
// backend. They are registered on the controller-runtime registry so the
// manager's metrics endpoint serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// ResolverCacheLookups counts memoised autocomplete lookups by result (hit, miss).
	ResolverCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipelines_console_autocomplete_cache_lookups_total",
		Help: "Autocomplete resolver cache lookups by result",
	}, []string{"result"})

	// AutocompleteExpressions observes how many result expressions a resolution produced.
	AutocompleteExpressions = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipelines_console_autocomplete_expressions",
		Help:    "Number of result expressions offered per resolution",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})

	// LogSnippets counts snippet extractions by outcome (none, static, locator).
	LogSnippets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipelines_console_log_snippets_total",
		Help: "Pipeline run log snippet extractions by outcome",
	}, []string{"outcome"})

	// CatalogLoads counts task catalog loads by result (success, error).
	CatalogLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipelines_console_catalog_loads_total",
		Help: "Task catalog loads by result",
	}, []string{"result"})
)

func init() {
	metrics.Registry.MustRegister(
		ResolverCacheLookups,
		AutocompleteExpressions,
		LogSnippets,
		CatalogLoads,
	)
}
