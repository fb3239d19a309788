package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// TaskKind distinguishes the collections a task reference can point into.
type TaskKind string

const (
	NamespacedTaskKind TaskKind = "Task"
	ClusterTaskKind    TaskKind = "ClusterTask"
	// EmbeddedTaskKind marks a task synthesized from an inline pipeline task spec.
	EmbeddedTaskKind TaskKind = "EmbeddedTask"
)

// EmbeddedTaskName is the display name given to tasks synthesized from inline specs.
const EmbeddedTaskName = "Embedded task"

type ParamSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Default     string `json:"default,omitempty"`
}

// TaskResult is a named output declared by a task.
type TaskResult struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

type Step struct {
	Name    string   `json:"name"`
	Image   string   `json:"image,omitempty"`
	Command []string `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
	Script  string   `json:"script,omitempty"`
}

type WorkspaceDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
}

// TaskSpec defines the reusable body of a task.
type TaskSpec struct {
	Description string                 `json:"description,omitempty"`
	Params      []ParamSpec            `json:"params,omitempty"`
	Results     []TaskResult           `json:"results,omitempty"`
	Steps       []Step                 `json:"steps,omitempty"`
	Workspaces  []WorkspaceDeclaration `json:"workspaces,omitempty"`
}

// +kubebuilder:object:root=true

// Task is a namespace-scoped task definition.
type Task struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec TaskSpec `json:"spec,omitempty"`
}

// +kubebuilder:object:root=true

// TaskList contains a list of Task
type TaskList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Task `json:"items"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster

// ClusterTask is a cluster-scoped task definition.
type ClusterTask struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec TaskSpec `json:"spec,omitempty"`
}

// AsTask returns the cluster task viewed as a Task carrying the ClusterTask kind.
func (ct *ClusterTask) AsTask() *Task {
	return &Task{
		TypeMeta: metav1.TypeMeta{
			APIVersion: GroupVersion.String(),
			Kind:       string(ClusterTaskKind),
		},
		ObjectMeta: *ct.ObjectMeta.DeepCopy(),
		Spec:       *ct.Spec.DeepCopy(),
	}
}

// +kubebuilder:object:root=true

// ClusterTaskList contains a list of ClusterTask
type ClusterTaskList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ClusterTask `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Task{}, &TaskList{}, &ClusterTask{}, &ClusterTaskList{})
}
