package logsnippet

import (
	"slices"
	"strings"

	corev1 "k8s.io/api/core/v1"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
	"github.com/kination/pipelines-console/internal/metrics"
)

const (
	// UnknownFailureMessage is shown when a failure carries no message.
	UnknownFailureMessage = "Unknown failure condition"
	// GenericFailureTitle is the title for failures not tied to one task.
	GenericFailureTitle = "Failure - check logs for details."
)

// knownReasons end a run without a task level error worth drilling into.
var knownReasons = map[string]bool{
	pipelinev1.PipelineRunReasonStoppedRunFinally:   true,
	pipelinev1.PipelineRunReasonCancelledRunFinally: true,
	pipelinev1.PipelineRunReasonTimedOut:            true,
}

// CombinedErrorDetails is either a static message or a locator of the
// container log to show for a failure.
type CombinedErrorDetails struct {
	Title         string `json:"title"`
	StaticMessage string `json:"staticMessage,omitempty"`
	PodName       string `json:"podName,omitempty"`
	ContainerName string `json:"containerName,omitempty"`
}

// HasLocator reports whether the details point at a container log.
func (d *CombinedErrorDetails) HasLocator() bool {
	return d != nil && d.PodName != "" && d.ContainerName != ""
}

// TaskFailureTitle is the title for a failure surfaced from a task run.
func TaskFailureTitle(taskName string) string {
	return "Failure on task " + taskName + " - check logs for details."
}

// GetPLRLogSnippet returns what to show for a failed pipeline run, or nil
// when the run did not fail or lacks the information to tell.
// Only the first failed task run is surfaced.
func GetPLRLogSnippet(pr *pipelinev1.PipelineRun, taskRuns []pipelinev1.TaskRun) *CombinedErrorDetails {
	details := getPLRLogSnippet(pr, taskRuns)
	switch {
	case details == nil:
		metrics.LogSnippets.WithLabelValues("none").Inc()
	case details.HasLocator():
		metrics.LogSnippets.WithLabelValues("locator").Inc()
	default:
		metrics.LogSnippets.WithLabelValues("static").Inc()
	}
	return details
}

func getPLRLogSnippet(pr *pipelinev1.PipelineRun, taskRuns []pipelinev1.TaskRun) *CombinedErrorDetails {
	if pr == nil || pr.Status == nil {
		return nil
	}
	if RunStatus(pr) != StatusFailed {
		return nil
	}

	succeeded := pr.Status.Conditions.Get(pipelinev1.ConditionSucceeded)
	if succeeded == nil || succeeded.Status != corev1.ConditionFalse {
		return nil
	}

	failed := firstFailedTaskRun(taskRuns)
	if failed == nil || knownReasons[succeeded.Reason] {
		message := succeeded.Message
		if message == "" {
			message = UnknownFailureMessage
		}
		return &CombinedErrorDetails{
			Title:         GenericFailureTitle,
			StaticMessage: message,
		}
	}

	var containerName string
	for _, step := range failed.Status.Steps {
		if step.Terminated == nil || step.Terminated.ExitCode != 0 {
			containerName = step.Container
			break
		}
	}

	return TaskRunSnippetMessage(failed.PipelineTaskName(), failed.Status, containerName)
}

// OrderTaskRuns returns taskRuns in the order the pipeline run lists them in
// its child references. Task runs it does not reference keep their relative
// order after the referenced ones.
func OrderTaskRuns(pr *pipelinev1.PipelineRun, taskRuns []pipelinev1.TaskRun) []pipelinev1.TaskRun {
	ordered := slices.Clone(taskRuns)
	if pr == nil || pr.Status == nil || len(pr.Status.ChildReferences) == 0 {
		return ordered
	}

	rank := make(map[string]int, len(pr.Status.ChildReferences))
	for i, ref := range pr.Status.ChildReferences {
		if _, ok := rank[ref.Name]; !ok {
			rank[ref.Name] = i
		}
	}
	position := func(tr pipelinev1.TaskRun) int {
		if i, ok := rank[tr.Name]; ok {
			return i
		}
		return len(rank)
	}

	slices.SortStableFunc(ordered, func(a, b pipelinev1.TaskRun) int {
		return position(a) - position(b)
	})
	return ordered
}

func firstFailedTaskRun(taskRuns []pipelinev1.TaskRun) *pipelinev1.TaskRun {
	for i := range taskRuns {
		tr := &taskRuns[i]
		if tr.Status == nil {
			continue
		}
		if c := tr.Status.Conditions.Get(pipelinev1.ConditionSucceeded); c != nil && c.Status == corev1.ConditionFalse {
			return tr
		}
	}
	return nil
}

// TaskRunSnippetMessage builds the details for a failed task run. Without a
// pod and container to read logs from, the condition messages are joined
// into a static message instead.
func TaskRunSnippetMessage(taskName string, status *pipelinev1.TaskRunStatus, containerName string) *CombinedErrorDetails {
	title := TaskFailureTitle(taskName)

	if status == nil || status.PodName == "" || containerName == "" {
		var messages []string
		if status != nil {
			for _, c := range status.Conditions {
				if c.Message != "" {
					messages = append(messages, c.Message)
				}
			}
		}
		message := strings.Join(messages, "\n")
		if message == "" {
			message = UnknownFailureMessage
		}
		return &CombinedErrorDetails{Title: title, StaticMessage: message}
	}

	return &CombinedErrorDetails{
		Title:         title,
		PodName:       status.PodName,
		ContainerName: containerName,
	}
}
