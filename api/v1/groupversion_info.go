// Package v1 contains the Tekton-shaped resources the console works with.
// Pipelines, tasks and runs live in tekton.dev/v1, trigger resources in
// triggers.tekton.dev/v1beta1 and routes in route.openshift.io/v1.
// +kubebuilder:object:generate=true
package v1

import (
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

var (
	// GroupVersion is group version used to register pipeline objects
	GroupVersion = schema.GroupVersion{Group: "tekton.dev", Version: "v1"}

	// TriggersGroupVersion is group version used to register trigger objects
	TriggersGroupVersion = schema.GroupVersion{Group: "triggers.tekton.dev", Version: "v1beta1"}

	// RouteGroupVersion is group version used to register OpenShift routes
	RouteGroupVersion = schema.GroupVersion{Group: "route.openshift.io", Version: "v1"}

	// SchemeBuilder is used to add pipeline types to the scheme.
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// TriggersSchemeBuilder is used to add trigger types to the scheme.
	TriggersSchemeBuilder = &scheme.Builder{GroupVersion: TriggersGroupVersion}

	// RouteSchemeBuilder is used to add route types to the scheme.
	RouteSchemeBuilder = &scheme.Builder{GroupVersion: RouteGroupVersion}
)

// AddToScheme adds every group of this package to the given scheme.
func AddToScheme(s *runtime.Scheme) error {
	for _, b := range []*scheme.Builder{SchemeBuilder, TriggersSchemeBuilder, RouteSchemeBuilder} {
		if err := b.AddToScheme(s); err != nil {
			return err
		}
	}
	return nil
}
