package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// Binding kinds accepted on event listener triggers.
const (
	TriggerBindingKind        = "TriggerBinding"
	ClusterTriggerBindingKind = "ClusterTriggerBinding"
)

// TriggerSpecTemplate refers to a TriggerTemplate. Ref is used since Triggers 0.5,
// Name is kept for older listeners.
type TriggerSpecTemplate struct {
	Ref  string `json:"ref,omitempty"`
	Name string `json:"name,omitempty"`
}

// TemplateName returns Ref, falling back to Name.
func (t *TriggerSpecTemplate) TemplateName() string {
	if t == nil {
		return ""
	}
	if t.Ref != "" {
		return t.Ref
	}
	return t.Name
}

type EventListenerBinding struct {
	Kind string `json:"kind,omitempty"`
	Ref  string `json:"ref,omitempty"`
	Name string `json:"name,omitempty"`
}

type EventListenerTrigger struct {
	Name     string                 `json:"name,omitempty"`
	Bindings []EventListenerBinding `json:"bindings,omitempty"`
	Template *TriggerSpecTemplate   `json:"template,omitempty"`
}

type EventListenerSpec struct {
	ServiceAccountName string                 `json:"serviceAccountName,omitempty"`
	Triggers           []EventListenerTrigger `json:"triggers,omitempty"`
}

type EventListenerConfiguration struct {
	GeneratedName string `json:"generatedName,omitempty"`
}

type EventListenerStatus struct {
	Configuration EventListenerConfiguration `json:"configuration,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// EventListener is the Schema for the eventlisteners API
type EventListener struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EventListenerSpec   `json:"spec,omitempty"`
	Status EventListenerStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// EventListenerList contains a list of EventListener
type EventListenerList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []EventListener `json:"items"`
}

type TriggerTemplateSpec struct {
	Params            []ParamSpec            `json:"params,omitempty"`
	ResourceTemplates []runtime.RawExtension `json:"resourcetemplates,omitempty"`
}

// +kubebuilder:object:root=true

// TriggerTemplate is the Schema for the triggertemplates API
type TriggerTemplate struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec TriggerTemplateSpec `json:"spec,omitempty"`
}

// +kubebuilder:object:root=true

// TriggerTemplateList contains a list of TriggerTemplate
type TriggerTemplateList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TriggerTemplate `json:"items"`
}

type TriggerBindingSpec struct {
	Params []Param `json:"params,omitempty"`
}

// +kubebuilder:object:root=true

// TriggerBinding is the Schema for the triggerbindings API
type TriggerBinding struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec TriggerBindingSpec `json:"spec,omitempty"`
}

// +kubebuilder:object:root=true

// TriggerBindingList contains a list of TriggerBinding
type TriggerBindingList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TriggerBinding `json:"items"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster

// ClusterTriggerBinding is the Schema for the clustertriggerbindings API
type ClusterTriggerBinding struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec TriggerBindingSpec `json:"spec,omitempty"`
}

// +kubebuilder:object:root=true

// ClusterTriggerBindingList contains a list of ClusterTriggerBinding
type ClusterTriggerBindingList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ClusterTriggerBinding `json:"items"`
}

func init() {
	TriggersSchemeBuilder.Register(
		&EventListener{}, &EventListenerList{},
		&TriggerTemplate{}, &TriggerTemplateList{},
		&TriggerBinding{}, &TriggerBindingList{},
		&ClusterTriggerBinding{}, &ClusterTriggerBindingList{},
	)
}
