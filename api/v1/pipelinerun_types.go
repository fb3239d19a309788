package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConditionType names a condition on a run.
type ConditionType string

const (
	// ConditionSucceeded is the terminal condition of pipeline and task runs.
	ConditionSucceeded ConditionType = "Succeeded"
)

// Condition mirrors the knative condition shape used by Tekton runs.
type Condition struct {
	Type    ConditionType          `json:"type"`
	Status  corev1.ConditionStatus `json:"status"`
	Reason  string                 `json:"reason,omitempty"`
	Message string                 `json:"message,omitempty"`
}

type Conditions []Condition

// Get returns the first condition of the given type, or nil.
func (c Conditions) Get(t ConditionType) *Condition {
	for i := range c {
		if c[i].Type == t {
			return &c[i]
		}
	}
	return nil
}

// Pipeline run reasons reported on the Succeeded condition.
const (
	PipelineRunReasonSucceeded               = "Succeeded"
	PipelineRunReasonFailed                  = "Failed"
	PipelineRunReasonCancelled               = "Cancelled"
	PipelineRunReasonTimedOut                = "PipelineRunTimeout"
	PipelineRunReasonStopping                = "PipelineRunStopping"
	PipelineRunReasonCancelledRunningFinally = "CancelledRunningFinally"
	PipelineRunReasonStoppedRunningFinally   = "StoppedRunningFinally"
	PipelineRunReasonCancelledRunFinally     = "CancelledRunFinally"
	PipelineRunReasonStoppedRunFinally       = "StoppedRunFinally"
	PipelineRunReasonPending                 = "PipelineRunPending"
)

// PipelineRunSpecStatus is the user requested state of a run.
type PipelineRunSpecStatus string

const (
	PipelineRunSpecStatusCancelled           PipelineRunSpecStatus = "Cancelled"
	PipelineRunSpecStatusCancelledRunFinally PipelineRunSpecStatus = "CancelledRunFinally"
	PipelineRunSpecStatusStoppedRunFinally   PipelineRunSpecStatus = "StoppedRunFinally"
	PipelineRunSpecStatusPending             PipelineRunSpecStatus = "PipelineRunPending"
)

type PipelineRef struct {
	Name string `json:"name,omitempty"`
}

type PipelineRunSpec struct {
	PipelineRef *PipelineRef          `json:"pipelineRef,omitempty"`
	Params      []Param               `json:"params,omitempty"`
	Status      PipelineRunSpecStatus `json:"status,omitempty"`
}

// ChildStatusReference names a TaskRun created for a pipeline task.
type ChildStatusReference struct {
	Name             string `json:"name,omitempty"`
	PipelineTaskName string `json:"pipelineTaskName,omitempty"`
	Kind             string `json:"kind,omitempty"`
}

type PipelineRunStatus struct {
	Conditions      Conditions             `json:"conditions,omitempty"`
	StartTime       *metav1.Time           `json:"startTime,omitempty"`
	CompletionTime  *metav1.Time           `json:"completionTime,omitempty"`
	ChildReferences []ChildStatusReference `json:"childReferences,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// PipelineRun is the Schema for the pipelineruns API
type PipelineRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   PipelineRunSpec    `json:"spec,omitempty"`
	Status *PipelineRunStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// PipelineRunList contains a list of PipelineRun
type PipelineRunList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []PipelineRun `json:"items"`
}

func init() {
	SchemeBuilder.Register(&PipelineRun{}, &PipelineRunList{})
}
