package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// PipelineRunLabelKey labels a TaskRun with its owning PipelineRun.
	PipelineRunLabelKey = "tekton.dev/pipelineRun"
	// PipelineTaskLabelKey labels a TaskRun with the pipeline task it executes.
	PipelineTaskLabelKey = "tekton.dev/pipelineTask"
)

// StepState is the container state of one step of a TaskRun.
type StepState struct {
	corev1.ContainerState `json:",inline"`

	Name      string `json:"name,omitempty"`
	Container string `json:"container,omitempty"`
	ImageID   string `json:"imageID,omitempty"`
}

type TaskRunResult struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type TaskRunSpec struct {
	TaskRef *TaskRef `json:"taskRef,omitempty"`
	Params  []Param  `json:"params,omitempty"`
}

type TaskRunStatus struct {
	Conditions     Conditions      `json:"conditions,omitempty"`
	PodName        string          `json:"podName,omitempty"`
	StartTime      *metav1.Time    `json:"startTime,omitempty"`
	CompletionTime *metav1.Time    `json:"completionTime,omitempty"`
	Steps          []StepState     `json:"steps,omitempty"`
	Results        []TaskRunResult `json:"results,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// TaskRun is the Schema for the taskruns API
type TaskRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TaskRunSpec    `json:"spec,omitempty"`
	Status *TaskRunStatus `json:"status,omitempty"`
}

// PipelineTaskName returns the pipeline task this run executes, falling back to the run name.
func (tr *TaskRun) PipelineTaskName() string {
	if name := tr.Labels[PipelineTaskLabelKey]; name != "" {
		return name
	}
	return tr.Name
}

// +kubebuilder:object:root=true

// TaskRunList contains a list of TaskRun
type TaskRunList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TaskRun `json:"items"`
}

func init() {
	SchemeBuilder.Register(&TaskRun{}, &TaskRunList{})
}
