package controller

import (
	"context"
	"maps"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/logsnippet"
)

// Annotations written on failed pipeline runs.
const (
	SnippetTitleAnnotation     = "pipelines.console/log-snippet-title"
	SnippetMessageAnnotation   = "pipelines.console/log-snippet-message"
	SnippetPodAnnotation       = "pipelines.console/log-snippet-pod"
	SnippetContainerAnnotation = "pipelines.console/log-snippet-container"
)

var snippetAnnotations = []string{
	SnippetTitleAnnotation,
	SnippetMessageAnnotation,
	SnippetPodAnnotation,
	SnippetContainerAnnotation,
}

// PipelineRunReconciler annotates failed PipelineRuns with their log snippet.
// +kubebuilder:rbac:groups=tekton.dev,resources=pipelineruns,verbs=get;list;watch;update;patch
// +kubebuilder:rbac:groups=tekton.dev,resources=taskruns,verbs=get;list;watch
type PipelineRunReconciler struct {
	client.Client
	Scheme *runtime.Scheme

	// RefreshInterval requeues runs that have not finished yet. 0 disables it.
	RefreshInterval time.Duration
}

func (r *PipelineRunReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := log.FromContext(ctx)

	var pr pipelinev1.PipelineRun
	if err := r.Get(ctx, req.NamespacedName, &pr); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	status := logsnippet.RunStatus(&pr)
	result := ctrl.Result{}
	if r.RefreshInterval > 0 && inProgress(status) {
		result.RequeueAfter = r.RefreshInterval
	}

	var details *logsnippet.CombinedErrorDetails
	if status == logsnippet.StatusFailed {
		var taskRuns pipelinev1.TaskRunList
		if err := r.List(ctx, &taskRuns,
			client.InNamespace(pr.Namespace),
			client.MatchingLabels{pipelinev1.PipelineRunLabelKey: pr.Name},
		); err != nil {
			return ctrl.Result{}, err
		}
		details = logsnippet.GetPLRLogSnippet(&pr, logsnippet.OrderTaskRuns(&pr, taskRuns.Items))
	}

	desired := applySnippet(pr.Annotations, details)
	if maps.Equal(desired, pr.Annotations) || (len(desired) == 0 && len(pr.Annotations) == 0) {
		return result, nil
	}

	patch := client.MergeFrom(pr.DeepCopy())
	pr.Annotations = desired
	if err := r.Patch(ctx, &pr, patch); err != nil {
		return ctrl.Result{}, err
	}

	if details == nil {
		log.Info("Cleared log snippet", "PipelineRun.Name", pr.Name)
	} else {
		log.Info("Annotated log snippet", "PipelineRun.Name", pr.Name, "Title", details.Title, "Pod", details.PodName)
	}
	return result, nil
}

func inProgress(status logsnippet.Status) bool {
	switch status {
	case logsnippet.StatusRunning, logsnippet.StatusPending, logsnippet.StatusCancelling, logsnippet.StatusUnknown:
		return true
	}
	return false
}

// applySnippet returns a copy of current with the snippet annotations set
// from details, or removed when details is nil.
func applySnippet(current map[string]string, details *logsnippet.CombinedErrorDetails) map[string]string {
	out := maps.Clone(current)
	if out == nil {
		out = map[string]string{}
	}
	for _, key := range snippetAnnotations {
		delete(out, key)
	}
	if details == nil {
		return out
	}

	out[SnippetTitleAnnotation] = details.Title
	if details.HasLocator() {
		out[SnippetPodAnnotation] = details.PodName
		out[SnippetContainerAnnotation] = details.ContainerName
	} else {
		out[SnippetMessageAnnotation] = details.StaticMessage
	}
	return out
}

// SnippetFromAnnotations reads back what Reconcile wrote, or nil.
func SnippetFromAnnotations(annotations map[string]string) *logsnippet.CombinedErrorDetails {
	title, ok := annotations[SnippetTitleAnnotation]
	if !ok {
		return nil
	}
	return &logsnippet.CombinedErrorDetails{
		Title:         title,
		StaticMessage: annotations[SnippetMessageAnnotation],
		PodName:       annotations[SnippetPodAnnotation],
		ContainerName: annotations[SnippetContainerAnnotation],
	}
}

// SetupWithManager sets up the controller with the Manager.
func (r *PipelineRunReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&pipelinev1.PipelineRun{}).
		Owns(&pipelinev1.TaskRun{}).
		Complete(r)
}
