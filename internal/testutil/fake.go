// Package testutil builds schemes and fake clients shared by package tests.
package testutil

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	pipelinev1 "github.com/kination/pipelines-console/api/v1"
)

var clusterScoped = map[string]bool{
	"ClusterTask":           true,
	"ClusterTriggerBinding": true,
}

// NewScheme returns a scheme with core and pipeline types registered.
func NewScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	_ = pipelinev1.AddToScheme(scheme)
	return scheme
}

// NewRESTMapper maps every registered kind with its real scope.
func NewRESTMapper(scheme *runtime.Scheme) meta.RESTMapper {
	gvs := []schema.GroupVersion{
		corev1.SchemeGroupVersion,
		pipelinev1.GroupVersion,
		pipelinev1.TriggersGroupVersion,
		pipelinev1.RouteGroupVersion,
	}
	mapper := meta.NewDefaultRESTMapper(gvs)
	for _, gv := range gvs {
		for kind := range scheme.KnownTypes(gv) {
			scope := meta.RESTScopeNamespace
			if clusterScoped[kind] {
				scope = meta.RESTScopeRoot
			}
			mapper.Add(gv.WithKind(kind), scope)
		}
	}
	return mapper
}

// NewFakeClient builds a fake client seeded with objs.
func NewFakeClient(objs ...client.Object) client.WithWatch {
	scheme := NewScheme()
	return fake.NewClientBuilder().
		WithScheme(scheme).
		WithRESTMapper(NewRESTMapper(scheme)).
		WithObjects(objs...).
		Build()
}
