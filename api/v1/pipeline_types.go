package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type Param struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// TaskRef points at a reusable task definition by kind and name.
type TaskRef struct {
	Name string   `json:"name,omitempty"`
	Kind TaskKind `json:"kind,omitempty"`
}

// EmbeddedTask carries a task definition inline in a pipeline task.
type EmbeddedTask struct {
	TaskSpec `json:",inline"`
}

type PipelineWorkspaceDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
}

type WorkspacePipelineTaskBinding struct {
	Name      string `json:"name"`
	Workspace string `json:"workspace,omitempty"`
}

// PipelineTask is a named step of a pipeline.
// Exactly one of TaskRef and TaskSpec is expected to be set.
type PipelineTask struct {
	Name       string                         `json:"name"`
	TaskRef    *TaskRef                       `json:"taskRef,omitempty"`
	TaskSpec   *EmbeddedTask                  `json:"taskSpec,omitempty"`
	RunAfter   []string                       `json:"runAfter,omitempty"`
	Params     []Param                        `json:"params,omitempty"`
	Workspaces []WorkspacePipelineTaskBinding `json:"workspaces,omitempty"`
}

// TaskReference is either ByReference or Inline.
type TaskReference interface {
	isTaskReference()
}

// ByReference resolves through the task catalog.
type ByReference struct {
	Kind TaskKind
	Name string
}

// Inline carries the task definition directly.
type Inline struct {
	Spec *TaskSpec
}

func (ByReference) isTaskReference() {}
func (Inline) isTaskReference()      {}

// Reference returns the task reference variant, or nil when the task carries neither.
// A task with both set resolves by reference.
func (pt *PipelineTask) Reference() TaskReference {
	if pt == nil {
		return nil
	}
	if pt.TaskRef != nil {
		kind := pt.TaskRef.Kind
		if kind == "" {
			kind = NamespacedTaskKind
		}
		return ByReference{Kind: kind, Name: pt.TaskRef.Name}
	}
	if pt.TaskSpec != nil {
		return Inline{Spec: &pt.TaskSpec.TaskSpec}
	}
	return nil
}

// PipelineSpec defines the tasks of a pipeline and what they share.
type PipelineSpec struct {
	Description string                         `json:"description,omitempty"`
	Params      []ParamSpec                    `json:"params,omitempty"`
	Workspaces  []PipelineWorkspaceDeclaration `json:"workspaces,omitempty"`
	Tasks       []PipelineTask                 `json:"tasks,omitempty"`
	Finally     []PipelineTask                 `json:"finally,omitempty"`
}

// +kubebuilder:object:root=true

// Pipeline is the Schema for the pipelines API
type Pipeline struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec PipelineSpec `json:"spec,omitempty"`
}

// +kubebuilder:object:root=true

// PipelineList contains a list of Pipeline
type PipelineList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Pipeline `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Pipeline{}, &PipelineList{})
}
