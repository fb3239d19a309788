// Package logsnippet decides whether a pipeline run failed and, if so, what
// the console should show about it: a static message or a locator of the
// container log that explains the failure.
package logsnippet

import (
	corev1 "k8s.io/api/core/v1"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
)

// Status is the overall state of a pipeline run as presented in the console.
type Status string

const (
	StatusSucceeded  Status = "Succeeded"
	StatusFailed     Status = "Failed"
	StatusRunning    Status = "Running"
	StatusCancelled  Status = "Cancelled"
	StatusCancelling Status = "Cancelling"
	StatusPending    Status = "Pending"
	StatusUnknown    Status = "Unknown"
)

// RunStatus reduces the conditions of a pipeline run to a single status.
func RunStatus(pr *pipelinev1.PipelineRun) Status {
	if pr == nil {
		return StatusUnknown
	}
	if pr.Spec.Status == pipelinev1.PipelineRunSpecStatusPending {
		return StatusPending
	}
	if pr.Status == nil || len(pr.Status.Conditions) == 0 {
		return StatusUnknown
	}

	succeeded := pr.Status.Conditions.Get(pipelinev1.ConditionSucceeded)
	if succeeded == nil || succeeded.Status == "" {
		return StatusUnknown
	}

	switch succeeded.Reason {
	case pipelinev1.PipelineRunReasonStopping,
		pipelinev1.PipelineRunReasonCancelledRunningFinally,
		pipelinev1.PipelineRunReasonStoppedRunningFinally:
		if pr.Status.CompletionTime == nil {
			return StatusCancelling
		}
	case pipelinev1.PipelineRunReasonPending:
		if succeeded.Status == corev1.ConditionUnknown {
			return StatusPending
		}
	}

	switch succeeded.Status {
	case corev1.ConditionTrue:
		return StatusSucceeded
	case corev1.ConditionFalse:
		if succeeded.Reason == pipelinev1.PipelineRunReasonCancelled {
			return StatusCancelled
		}
		return StatusFailed
	default:
		return StatusRunning
	}
}
