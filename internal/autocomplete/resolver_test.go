package autocomplete

import (
	"slices"
	"sort"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/catalog"
)

func refTask(name, taskRef string, runAfter ...string) pipelinev1.PipelineTask {
	return pipelinev1.PipelineTask{
		Name:     name,
		TaskRef:  &pipelinev1.TaskRef{Name: taskRef},
		RunAfter: runAfter,
	}
}

func results(names ...string) []pipelinev1.TaskResult {
	out := make([]pipelinev1.TaskResult, 0, len(names))
	for _, n := range names {
		out = append(out, pipelinev1.TaskResult{Name: n})
	}
	return out
}

func newSnapshot() *catalog.Snapshot {
	store := catalog.NewStore()
	return store.Update(
		[]pipelinev1.ClusterTask{{
			ObjectMeta: metav1.ObjectMeta{Name: "git-clone"},
			Spec:       pipelinev1.TaskSpec{Results: results("commit", "url")},
		}},
		[]pipelinev1.Task{
			{ObjectMeta: metav1.ObjectMeta{Name: "build"}, Spec: pipelinev1.TaskSpec{Results: results("image-digest")}},
			{ObjectMeta: metav1.ObjectMeta{Name: "test"}, Spec: pipelinev1.TaskSpec{Results: results("report")}},
			{ObjectMeta: metav1.ObjectMeta{Name: "noop"}},
		},
	)
}

func sorted(names []string) []string {
	out := slices.Clone(names)
	sort.Strings(out)
	return out
}

func TestTasksThatRunAfter(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []pipelinev1.PipelineTask
		taskName string
		expected []string
	}{
		{
			name:     "no dependents",
			tasks:    []pipelinev1.PipelineTask{refTask("a", "build"), refTask("b", "build")},
			taskName: "a",
			expected: []string{"a"},
		},
		{
			name: "diamond",
			tasks: []pipelinev1.PipelineTask{
				refTask("a", "build"),
				refTask("b", "build", "a"),
				refTask("c", "build", "a"),
				refTask("d", "build", "b", "c"),
			},
			taskName: "a",
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name: "chain from the middle",
			tasks: []pipelinev1.PipelineTask{
				refTask("a", "build"),
				refTask("b", "build", "a"),
				refTask("c", "build", "b"),
			},
			taskName: "b",
			expected: []string{"b", "c"},
		},
		{
			name:     "self reference",
			tasks:    []pipelinev1.PipelineTask{refTask("a", "build", "a")},
			taskName: "a",
			expected: []string{"a"},
		},
		{
			name: "cycle",
			tasks: []pipelinev1.PipelineTask{
				refTask("a", "build", "c"),
				refTask("b", "build", "a"),
				refTask("c", "build", "b"),
			},
			taskName: "a",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "unknown task name",
			tasks:    []pipelinev1.PipelineTask{refTask("a", "build")},
			taskName: "missing",
			expected: []string{"missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TasksThatRunAfter(tt.tasks, tt.taskName)

			if got[0] != tt.taskName {
				t.Errorf("expected %s first, got %v", tt.taskName, got)
			}
			if !slices.Equal(sorted(got), sorted(tt.expected)) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if len(slices.Compact(sorted(got))) != len(got) {
				t.Errorf("result contains duplicates: %v", got)
			}
		})
	}
}

func TestFindTask(t *testing.T) {
	snap := newSnapshot()

	t.Run("namespaced reference", func(t *testing.T) {
		task := refTask("build-image", "build")
		found := FindTask(snap, &task)
		if found == nil || found.Name != "build" {
			t.Fatalf("expected build task, got %v", found)
		}
	})

	t.Run("cluster reference", func(t *testing.T) {
		task := pipelinev1.PipelineTask{
			Name:    "fetch",
			TaskRef: &pipelinev1.TaskRef{Name: "git-clone", Kind: pipelinev1.ClusterTaskKind},
		}
		found := FindTask(snap, &task)
		if found == nil || found.Name != "git-clone" {
			t.Fatalf("expected git-clone cluster task, got %v", found)
		}
		if found.Kind != string(pipelinev1.ClusterTaskKind) {
			t.Errorf("expected kind ClusterTask, got %s", found.Kind)
		}
	})

	t.Run("cluster kind does not match namespaced task", func(t *testing.T) {
		task := pipelinev1.PipelineTask{
			Name:    "fetch",
			TaskRef: &pipelinev1.TaskRef{Name: "build", Kind: pipelinev1.ClusterTaskKind},
		}
		if found := FindTask(snap, &task); found != nil {
			t.Errorf("expected nil, got %v", found)
		}
	})

	t.Run("inline spec", func(t *testing.T) {
		task := pipelinev1.PipelineTask{
			Name:     "inline",
			TaskSpec: &pipelinev1.EmbeddedTask{TaskSpec: pipelinev1.TaskSpec{Results: results("out")}},
		}
		found := FindTask(nil, &task)
		if found == nil {
			t.Fatal("inline task should resolve without a catalog")
		}
		if found.Kind != string(pipelinev1.EmbeddedTaskKind) || found.Name != pipelinev1.EmbeddedTaskName {
			t.Errorf("unexpected embedded task %s/%s", found.Kind, found.Name)
		}
	})

	t.Run("catalog not loaded", func(t *testing.T) {
		task := refTask("build-image", "build")
		if found := FindTask(&catalog.Snapshot{}, &task); found != nil {
			t.Errorf("expected nil for unloaded catalog, got %v", found)
		}
	})

	t.Run("collection absent", func(t *testing.T) {
		partial := &catalog.Snapshot{TasksLoaded: true, NamespacedTasks: snap.NamespacedTasks}
		task := refTask("build-image", "build")
		if found := FindTask(partial, &task); found != nil {
			t.Errorf("expected nil when cluster tasks are absent, got %v", found)
		}
	})

	t.Run("neither ref nor spec", func(t *testing.T) {
		task := pipelinev1.PipelineTask{Name: "empty"}
		if found := FindTask(snap, &task); found != nil {
			t.Errorf("expected nil, got %v", found)
		}
	})
}

func TestEligibleResultExpressions(t *testing.T) {
	snap := newSnapshot()
	tasks := []pipelinev1.PipelineTask{
		{Name: "fetch", TaskRef: &pipelinev1.TaskRef{Name: "git-clone", Kind: pipelinev1.ClusterTaskKind}},
		refTask("build-image", "build", "fetch"),
		refTask("unit", "test", "build-image"),
		refTask("quiet", "noop"),
		refTask("ghost", "does-not-exist"),
	}

	tests := []struct {
		name      string
		taskIndex int
		expected  []string
	}{
		{
			name:      "first task excludes everything downstream",
			taskIndex: 0,
			expected:  []string{},
		},
		{
			name:      "middle task sees upstream results",
			taskIndex: 2,
			expected: []string{
				"tasks.fetch.results.commit",
				"tasks.fetch.results.url",
				"tasks.build-image.results.image-digest",
			},
		},
		{
			name:      "independent task sees every other task",
			taskIndex: 3,
			expected: []string{
				"tasks.fetch.results.commit",
				"tasks.fetch.results.url",
				"tasks.build-image.results.image-digest",
				"tasks.unit.results.report",
			},
		},
		{
			name:      "index out of range excludes nothing",
			taskIndex: len(tasks),
			expected: []string{
				"tasks.fetch.results.commit",
				"tasks.fetch.results.url",
				"tasks.build-image.results.image-digest",
				"tasks.unit.results.report",
			},
		},
		{
			name:      "negative index excludes nothing",
			taskIndex: -1,
			expected: []string{
				"tasks.fetch.results.commit",
				"tasks.fetch.results.url",
				"tasks.build-image.results.image-digest",
				"tasks.unit.results.report",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EligibleResultExpressions(tasks, snap, tt.taskIndex)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestEligibleResultExpressions_NeverReferencesInvalidTasks(t *testing.T) {
	snap := newSnapshot()
	tasks := []pipelinev1.PipelineTask{
		refTask("a", "build"),
		refTask("b", "build", "a"),
		refTask("c", "test", "a"),
		refTask("d", "test", "b", "c"),
		refTask("e", "build"),
	}

	for i := range tasks {
		invalid := TasksThatRunAfter(tasks, tasks[i].Name)
		for _, expr := range EligibleResultExpressions(tasks, snap, i) {
			for _, name := range invalid {
				prefix := "tasks." + name + ".results."
				if len(expr) >= len(prefix) && expr[:len(prefix)] == prefix {
					t.Errorf("task %s: expression %s references invalid task %s", tasks[i].Name, expr, name)
				}
			}
		}
	}
}

func TestEligibleResultExpressions_UnloadedCatalog(t *testing.T) {
	tasks := []pipelinev1.PipelineTask{
		refTask("build-image", "build"),
		{
			Name:     "inline",
			TaskSpec: &pipelinev1.EmbeddedTask{TaskSpec: pipelinev1.TaskSpec{Results: results("out")}},
		},
	}

	got := EligibleResultExpressions(tasks, &catalog.Snapshot{}, 5)
	expected := []string{"tasks.inline.results.out"}
	if !slices.Equal(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestOptions(t *testing.T) {
	snap := newSnapshot()
	spec := &pipelinev1.PipelineSpec{
		Params:     []pipelinev1.ParamSpec{{Name: "revision"}},
		Workspaces: []pipelinev1.PipelineWorkspaceDeclaration{{Name: "source"}},
		Tasks: []pipelinev1.PipelineTask{
			refTask("build-image", "build"),
			refTask("unit", "test", "build-image"),
		},
		Finally: []pipelinev1.PipelineTask{refTask("notify", "noop")},
	}

	t.Run("regular task", func(t *testing.T) {
		got := Options(spec, snap, 1, false)
		expected := []string{
			"params.revision",
			"workspaces.source.bound",
			"tasks.build-image.results.image-digest",
		}
		if !slices.Equal(got, expected) {
			t.Errorf("expected %v, got %v", expected, got)
		}
	})

	t.Run("finally task", func(t *testing.T) {
		got := Options(spec, snap, 0, true)
		expected := []string{
			"params.revision",
			"workspaces.source.bound",
			"tasks.build-image.status",
			"tasks.unit.status",
			"tasks.status",
			"tasks.build-image.results.image-digest",
			"tasks.unit.results.report",
		}
		if !slices.Equal(got, expected) {
			t.Errorf("expected %v, got %v", expected, got)
		}
	})
}
