package autocomplete

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/catalog"
	"github.com/kination/pipelines-console/internal/metrics"
)

// DefaultCacheSize is the number of resolutions a Resolver keeps.
const DefaultCacheSize = 512

// Resolver memoises EligibleResultExpressions. Entries are keyed by the
// catalog revision plus everything of the task list that affects the result,
// so a republished catalog never serves stale expressions. Snapshots that were
// not published by a catalog.Store (revision 0) bypass the cache.
type Resolver struct {
	cache *lru.Cache[uint64, []string]
}

// NewResolver creates a resolver holding up to size resolutions
func NewResolver(size int) (*Resolver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[uint64, []string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver cache: %w", err)
	}
	return &Resolver{cache: cache}, nil
}

// EligibleResultExpressions behaves like the package level function.
func (r *Resolver) EligibleResultExpressions(tasks []pipelinev1.PipelineTask, resources *catalog.Snapshot, taskIndex int) []string {
	if resources == nil || resources.Revision == 0 {
		return r.compute(tasks, resources, taskIndex)
	}

	key := fingerprint(tasks, resources, taskIndex)
	if exprs, ok := r.cache.Get(key); ok {
		metrics.ResolverCacheLookups.WithLabelValues("hit").Inc()
		return slices.Clone(exprs)
	}
	metrics.ResolverCacheLookups.WithLabelValues("miss").Inc()

	exprs := r.compute(tasks, resources, taskIndex)
	r.cache.Add(key, exprs)
	return slices.Clone(exprs)
}

// Len returns the number of cached resolutions
func (r *Resolver) Len() int {
	return r.cache.Len()
}

// Purge drops every cached resolution
func (r *Resolver) Purge() {
	r.cache.Purge()
}

func (r *Resolver) compute(tasks []pipelinev1.PipelineTask, resources *catalog.Snapshot, taskIndex int) []string {
	exprs := EligibleResultExpressions(tasks, resources, taskIndex)
	metrics.AutocompleteExpressions.Observe(float64(len(exprs)))
	return exprs
}

func fingerprint(tasks []pipelinev1.PipelineTask, resources *catalog.Snapshot, taskIndex int) uint64 {
	d := xxhash.New()
	write := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}

	write(strconv.FormatUint(resources.Revision, 10))
	write(strconv.FormatBool(resources.Ready()))
	write(strconv.Itoa(taskIndex))
	write(strconv.Itoa(len(tasks)))
	for _, task := range tasks {
		write(task.Name)
		write(strconv.Itoa(len(task.RunAfter)))
		for _, name := range task.RunAfter {
			write(name)
		}
		switch ref := task.Reference().(type) {
		case pipelinev1.ByReference:
			write("ref")
			write(string(ref.Kind))
			write(ref.Name)
		case pipelinev1.Inline:
			write("inline")
			write(strconv.Itoa(len(ref.Spec.Results)))
			for _, result := range ref.Spec.Results {
				write(result.Name)
			}
		default:
			write("none")
		}
	}
	return d.Sum64()
}
