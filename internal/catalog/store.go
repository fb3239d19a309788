// Package catalog holds the task catalog a pipeline editing session resolves
// task references against.
package catalog

import (
	"sync"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
)

// Snapshot is the task catalog as seen at one point in time.
// A nil collection means it has not been fetched.
type Snapshot struct {
	TasksLoaded     bool
	ClusterTasks    []pipelinev1.ClusterTask
	NamespacedTasks []pipelinev1.Task

	// Revision increases every time the store publishes a new snapshot.
	Revision uint64
}

// ClusterTask returns the cluster task with the given name, or nil.
func (s *Snapshot) ClusterTask(name string) *pipelinev1.ClusterTask {
	if s == nil {
		return nil
	}
	for i := range s.ClusterTasks {
		if s.ClusterTasks[i].Name == name {
			return &s.ClusterTasks[i]
		}
	}
	return nil
}

// NamespacedTask returns the namespaced task with the given name, or nil.
func (s *Snapshot) NamespacedTask(name string) *pipelinev1.Task {
	if s == nil {
		return nil
	}
	for i := range s.NamespacedTasks {
		if s.NamespacedTasks[i].Name == name {
			return &s.NamespacedTasks[i]
		}
	}
	return nil
}

// Ready reports whether references can be resolved against the snapshot.
func (s *Snapshot) Ready() bool {
	return s != nil && s.TasksLoaded && s.ClusterTasks != nil && s.NamespacedTasks != nil
}

// Store holds the current snapshot of a catalog and is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	current  *Snapshot
	revision uint64
}

// NewStore creates a store holding an unloaded snapshot
func NewStore() *Store {
	return &Store{current: &Snapshot{}}
}

// Update publishes a new snapshot built from the given collections.
func (s *Store) Update(clusterTasks []pipelinev1.ClusterTask, namespacedTasks []pipelinev1.Task) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if clusterTasks == nil {
		clusterTasks = []pipelinev1.ClusterTask{}
	}
	if namespacedTasks == nil {
		namespacedTasks = []pipelinev1.Task{}
	}
	s.revision++
	s.current = &Snapshot{
		TasksLoaded:     true,
		ClusterTasks:    clusterTasks,
		NamespacedTasks: namespacedTasks,
		Revision:        s.revision,
	}
	return s.current
}

// Reset drops the current snapshot, e.g. when the catalog is about to be refetched.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revision++
	s.current = &Snapshot{Revision: s.revision}
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
