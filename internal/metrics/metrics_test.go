package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLogSnippets(t *testing.T) {
	before := testutil.ToFloat64(LogSnippets.WithLabelValues("static"))
	LogSnippets.WithLabelValues("static").Inc()

	if got := testutil.ToFloat64(LogSnippets.WithLabelValues("static")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}

func TestCollectorsRegistered(t *testing.T) {
	ResolverCacheLookups.WithLabelValues("hit")
	CatalogLoads.WithLabelValues("success")

	if n := testutil.CollectAndCount(ResolverCacheLookups); n == 0 {
		t.Error("expected resolver cache series")
	}
	if n := testutil.CollectAndCount(CatalogLoads); n == 0 {
		t.Error("expected catalog load series")
	}
}
