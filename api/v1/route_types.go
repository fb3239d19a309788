package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// RouteAdmitted is the ingress condition set once a router accepts the route.
const RouteAdmitted = "Admitted"

type TLSConfig struct {
	Termination string `json:"termination,omitempty"`
}

type RouteSpec struct {
	Host string     `json:"host,omitempty"`
	Path string     `json:"path,omitempty"`
	TLS  *TLSConfig `json:"tls,omitempty"`
}

type RouteIngressCondition struct {
	Type   string                 `json:"type"`
	Status corev1.ConditionStatus `json:"status"`
}

type RouteIngress struct {
	Host       string                  `json:"host,omitempty"`
	RouterName string                  `json:"routerName,omitempty"`
	Conditions []RouteIngressCondition `json:"conditions,omitempty"`
}

type RouteStatus struct {
	Ingress []RouteIngress `json:"ingress,omitempty"`
}

// +kubebuilder:object:root=true

// Route exposes an event listener service outside the cluster.
type Route struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   RouteSpec   `json:"spec,omitempty"`
	Status RouteStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// RouteList contains a list of Route
type RouteList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Route `json:"items"`
}

func init() {
	RouteSchemeBuilder.Register(&Route{}, &RouteList{})
}
