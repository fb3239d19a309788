package autocomplete

import (
	"slices"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/catalog"
)

// FindTask resolves the task definition backing a pipeline task.
// It returns nil when the task cannot be resolved, including when the
// catalog has not been loaded yet.
func FindTask(resources *catalog.Snapshot, task *pipelinev1.PipelineTask) *pipelinev1.Task {
	switch ref := task.Reference().(type) {
	case pipelinev1.ByReference:
		if !resources.Ready() {
			return nil
		}
		if ref.Kind == pipelinev1.ClusterTaskKind {
			if ct := resources.ClusterTask(ref.Name); ct != nil {
				return ct.AsTask()
			}
			return nil
		}
		return resources.NamespacedTask(ref.Name)
	case pipelinev1.Inline:
		return &pipelinev1.Task{
			TypeMeta: metav1.TypeMeta{
				APIVersion: pipelinev1.GroupVersion.String(),
				Kind:       string(pipelinev1.EmbeddedTaskKind),
			},
			ObjectMeta: metav1.ObjectMeta{Name: pipelinev1.EmbeddedTaskName},
			Spec:       *ref.Spec,
		}
	}
	return nil
}

// TaskToResults returns one result expression per result declared by the
// task backing the given pipeline task.
func TaskToResults(resources *catalog.Snapshot, task *pipelinev1.PipelineTask) []string {
	resolved := FindTask(resources, task)
	if resolved == nil || len(resolved.Spec.Results) == 0 {
		return nil
	}
	exprs := make([]string, 0, len(resolved.Spec.Results))
	for _, result := range resolved.Spec.Results {
		exprs = append(exprs, ResultExpression(task.Name, result.Name))
	}
	return exprs
}

// TasksThatRunAfter returns taskName followed by every task that runs after it,
// directly or transitively through runAfter. Each name appears once and the
// walk terminates on self references and cycles.
func TasksThatRunAfter(tasks []pipelinev1.PipelineTask, taskName string) []string {
	visited := map[string]bool{taskName: true}
	names := []string{taskName}

	queue := []string{taskName}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, task := range tasks {
			if visited[task.Name] || !slices.Contains(task.RunAfter, current) {
				continue
			}
			visited[task.Name] = true
			names = append(names, task.Name)
			queue = append(queue, task.Name)
		}
	}
	return names
}

// EligibleResultExpressions returns the result expressions the task at
// taskIndex may reference. Tasks that run after it (and the task itself) are
// excluded; an index outside the list excludes nothing. Expressions follow
// task order, then each task's declared result order.
func EligibleResultExpressions(tasks []pipelinev1.PipelineTask, resources *catalog.Snapshot, taskIndex int) []string {
	invalid := make(map[string]bool)
	if taskIndex >= 0 && taskIndex < len(tasks) {
		for _, name := range TasksThatRunAfter(tasks, tasks[taskIndex].Name) {
			invalid[name] = true
		}
	}

	exprs := make([]string, 0)
	for i := range tasks {
		if invalid[tasks[i].Name] {
			continue
		}
		for _, expr := range TaskToResults(resources, &tasks[i]) {
			if expr != "" {
				exprs = append(exprs, expr)
			}
		}
	}
	return exprs
}

// Options returns every expression offered while editing a task of spec.
// When inFinally is set, taskIndex points into spec.Finally: finally tasks run
// after all regular tasks, so they may reference every regular task's results
// and statuses.
func Options(spec *pipelinev1.PipelineSpec, resources *catalog.Snapshot, taskIndex int, inFinally bool) []string {
	opts := make([]string, 0, len(spec.Params)+len(spec.Workspaces))
	for _, p := range spec.Params {
		opts = append(opts, ParamToAutoComplete(p))
	}
	for _, ws := range spec.Workspaces {
		opts = append(opts, WorkspaceToAutoComplete(ws))
	}

	if !inFinally {
		return append(opts, EligibleResultExpressions(spec.Tasks, resources, taskIndex)...)
	}

	for _, task := range spec.Tasks {
		opts = append(opts, TaskToStatus(task))
	}
	if len(spec.Tasks) > 0 {
		opts = append(opts, AggregateTasksStatus)
	}
	return append(opts, EligibleResultExpressions(spec.Tasks, resources, -1)...)
}
