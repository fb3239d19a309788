package logsnippet

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
)

func TestRunStatus(t *testing.T) {
	completed := &metav1.Time{}

	tests := []struct {
		name      string
		specState pipelinev1.PipelineRunSpecStatus
		status    corev1.ConditionStatus
		reason    string
		completed *metav1.Time
		expected  Status
	}{
		{name: "succeeded", status: corev1.ConditionTrue, reason: "Succeeded", expected: StatusSucceeded},
		{name: "failed", status: corev1.ConditionFalse, reason: "Failed", expected: StatusFailed},
		{name: "timed out", status: corev1.ConditionFalse, reason: pipelinev1.PipelineRunReasonTimedOut, expected: StatusFailed},
		{name: "cancelled", status: corev1.ConditionFalse, reason: pipelinev1.PipelineRunReasonCancelled, expected: StatusCancelled},
		{name: "running", status: corev1.ConditionUnknown, reason: "Running", expected: StatusRunning},
		{name: "stopping", status: corev1.ConditionUnknown, reason: pipelinev1.PipelineRunReasonStopping, expected: StatusCancelling},
		{name: "stopped with completion", status: corev1.ConditionFalse, reason: pipelinev1.PipelineRunReasonStopping, completed: completed, expected: StatusFailed},
		{name: "pending reason", status: corev1.ConditionUnknown, reason: pipelinev1.PipelineRunReasonPending, expected: StatusPending},
		{name: "pending spec", specState: pipelinev1.PipelineRunSpecStatusPending, expected: StatusPending},
		{name: "empty status", expected: StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := &pipelinev1.PipelineRun{
				Spec:   pipelinev1.PipelineRunSpec{Status: tt.specState},
				Status: &pipelinev1.PipelineRunStatus{CompletionTime: tt.completed},
			}
			if tt.status != "" {
				pr.Status.Conditions = pipelinev1.Conditions{{
					Type:   pipelinev1.ConditionSucceeded,
					Status: tt.status,
					Reason: tt.reason,
				}}
			}

			if got := RunStatus(pr); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRunStatus_Nil(t *testing.T) {
	if got := RunStatus(nil); got != StatusUnknown {
		t.Errorf("expected Unknown, got %s", got)
	}
	if got := RunStatus(&pipelinev1.PipelineRun{}); got != StatusUnknown {
		t.Errorf("expected Unknown, got %s", got)
	}
}
