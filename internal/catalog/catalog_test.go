package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr/funcr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/testutil"
)

func TestNewStore(t *testing.T) {
	store := NewStore()
	snap := store.Snapshot()
	if snap == nil {
		t.Fatal("Snapshot returned nil")
	}
	if snap.TasksLoaded {
		t.Error("new store should not be loaded")
	}
	if snap.Ready() {
		t.Error("new store should not be ready")
	}
}

func TestStore_Update(t *testing.T) {
	store := NewStore()

	snap := store.Update(nil, []pipelinev1.Task{{ObjectMeta: metav1.ObjectMeta{Name: "build"}}})
	if !snap.Ready() {
		t.Fatal("snapshot should be ready after update")
	}
	if snap.ClusterTasks == nil {
		t.Error("nil cluster tasks should be published as empty")
	}
	if snap.NamespacedTask("build") == nil {
		t.Error("expected build task in snapshot")
	}
	if snap.NamespacedTask("deploy") != nil {
		t.Error("deploy task should not be found")
	}
	if store.Snapshot() != snap {
		t.Error("store should return the published snapshot")
	}
}

func TestStore_Reset(t *testing.T) {
	store := NewStore()
	first := store.Update(nil, nil)
	store.Reset()

	snap := store.Snapshot()
	if snap.Ready() {
		t.Error("snapshot should not be ready after reset")
	}
	if snap.Revision <= first.Revision {
		t.Errorf("expected revision to advance past %d, got %d", first.Revision, snap.Revision)
	}
}

func TestSnapshot_NilSafe(t *testing.T) {
	var snap *Snapshot
	if snap.Ready() {
		t.Error("nil snapshot should not be ready")
	}
	if snap.ClusterTask("x") != nil || snap.NamespacedTask("x") != nil {
		t.Error("nil snapshot lookups should return nil")
	}
}

func TestLoader_Load(t *testing.T) {
	cl := testutil.NewFakeClient(
		&pipelinev1.ClusterTask{ObjectMeta: metav1.ObjectMeta{Name: "git-clone"}},
		&pipelinev1.Task{ObjectMeta: metav1.ObjectMeta{Name: "build", Namespace: "team-a"}},
		&pipelinev1.Task{ObjectMeta: metav1.ObjectMeta{Name: "lint", Namespace: "team-b"}},
	)

	loader := NewLoader(cl, NewStore())
	snap, err := loader.Load(context.Background(), "team-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !snap.Ready() {
		t.Fatal("loaded snapshot should be ready")
	}
	if snap.ClusterTask("git-clone") == nil {
		t.Error("expected git-clone cluster task")
	}
	if snap.NamespacedTask("build") == nil {
		t.Error("expected build task from team-a")
	}
	if snap.NamespacedTask("lint") != nil {
		t.Error("lint task from team-b should not be loaded")
	}
	if loader.Store().Snapshot() != snap {
		t.Error("loader should publish into its store")
	}
}

type failingReader struct {
	client.Reader
}

func (failingReader) List(ctx context.Context, list client.ObjectList, opts ...client.ListOption) error {
	return errors.New("boom")
}

func TestLoader_LoadError(t *testing.T) {
	store := NewStore()
	previous := store.Update(nil, nil)

	loader := NewLoader(failingReader{}, store)
	if _, err := loader.Load(context.Background(), "default"); err == nil {
		t.Fatal("expected error from failing reader")
	}
	if store.Snapshot() != previous {
		t.Error("store should keep its previous snapshot on error")
	}
}

func TestLoader_WithLogger(t *testing.T) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	loader := NewLoader(testutil.NewFakeClient(), NewStore()).WithLogger(logger)
	if _, err := loader.Load(context.Background(), "default"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(lines))
	}
}
