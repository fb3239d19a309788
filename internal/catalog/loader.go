package catalog

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/metrics"
)

// Loader fetches the task catalog from the cluster into a Store.
type Loader struct {
	reader client.Reader
	store  *Store
	log    logr.Logger
}

// NewLoader creates a loader publishing into store
func NewLoader(reader client.Reader, store *Store) *Loader {
	return &Loader{reader: reader, store: store, log: ctrl.Log.WithName("catalog")}
}

// WithLogger replaces the loader's logger.
func (l *Loader) WithLogger(log logr.Logger) *Loader {
	l.log = log
	return l
}

// Load lists cluster tasks and the tasks of namespace and publishes them.
// On error the store keeps its previous snapshot.
func (l *Loader) Load(ctx context.Context, namespace string) (*Snapshot, error) {
	var clusterTasks pipelinev1.ClusterTaskList
	if err := l.reader.List(ctx, &clusterTasks); err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to list cluster tasks: %w", err)
	}

	var tasks pipelinev1.TaskList
	if err := l.reader.List(ctx, &tasks, client.InNamespace(namespace)); err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to list tasks in namespace %s: %w", namespace, err)
	}

	snap := l.store.Update(clusterTasks.Items, tasks.Items)
	metrics.CatalogLoads.WithLabelValues("success").Inc()
	l.log.V(1).Info("Loaded task catalog", "namespace", namespace,
		"clusterTasks", len(snap.ClusterTasks), "tasks", len(snap.NamespacedTasks), "revision", snap.Revision)
	return snap, nil
}

// Store returns the store the loader publishes into
func (l *Loader) Store() *Store {
	return l.store
}
